package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// nominatimResponse is the subset of the Nominatim jsonv2 reverse response we
// care about.
type nominatimResponse struct {
	Address nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	County        string `json:"county"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	CityDistrict  string `json:"city_district"`
	StateDistrict string `json:"state_district"`
}

// Geocoder resolves coordinates to place names through Nominatim, with a TTL
// cache in front and a pacing gate between it and the upstream service.
type Geocoder struct {
	cache      *Cache
	pacer      *Pacer
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewGeocoder creates a reverse geocoder. The timeout bounds each upstream
// request; it is the only deadline in the system.
func NewGeocoder(cache *Cache, pacer *Pacer, baseURL, userAgent string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		cache:      cache,
		pacer:      pacer,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

// Resolve looks up the city and district for a coordinate pair. It never
// fails: any upstream problem is logged and degrades to an empty Result so
// the write path can proceed without enrichment. Failed lookups are not
// cached; successful ones are, even when both fields came back empty.
func (g *Geocoder) Resolve(ctx context.Context, lat, lng float64) Result {
	key := g.cache.Key(lat, lng)
	if result, ok := g.cache.Get(key); ok {
		return result
	}

	g.pacer.Wait()

	result, err := g.fetch(ctx, lat, lng)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"lat": lat, "lng": lng}).
			Warn("reverse geocoding fallback")
		return Result{}
	}

	g.cache.Set(key, result)
	return result
}

func (g *Geocoder) fetch(ctx context.Context, lat, lng float64) (Result, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("zoom", "13")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	// Nominatim policy requires an identifying user agent; omitting it risks
	// getting blocked upstream.
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept-Language", "ar,en")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("nominatim error %d", resp.StatusCode)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	addr := payload.Address
	return Result{
		City:     firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Municipality, addr.County),
		District: firstNonEmpty(addr.Suburb, addr.Neighbourhood, addr.CityDistrict, addr.StateDistrict),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
