// Package detection clusters classified posts into hotspot candidates by
// hazard type, space and time. The running centroid mutates shared
// candidate state, so posts are applied one at a time in (CreatedAt, ID)
// order.
package detection

import (
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"coastwatch/types"
)

const (
	defaultPostThreshold       = 20
	defaultRadiusKM            = 10.0
	defaultWindow              = time.Hour
	defaultConfidenceThreshold = 0.75

	earthRadiusKM = 6371.0

	// Posts at or above this confidence count into HighConfidenceCount.
	highConfidenceFloor = 0.9

	// Urgency rollup shares, from the source system: a candidate is High
	// when >=30% of members are High, Medium when >=40% are Medium.
	highUrgencyShare   = 0.3
	mediumUrgencyShare = 0.4
)

type Config struct {
	PostThreshold       int
	RadiusKM            float64
	Window              time.Duration
	ConfidenceThreshold float64
}

func DefaultConfig() Config {
	return Config{
		PostThreshold:       defaultPostThreshold,
		RadiusKM:            defaultRadiusKM,
		Window:              defaultWindow,
		ConfidenceThreshold: defaultConfidenceThreshold,
	}
}

// ConfigFromEnv overlays environment tunables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v, err := strconv.Atoi(os.Getenv("HOTSPOT_POST_THRESHOLD")); err == nil && v > 0 {
		cfg.PostThreshold = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("HOTSPOT_RADIUS_KM"), 64); err == nil && v > 0 {
		cfg.RadiusKM = v
	}
	if v, err := strconv.Atoi(os.Getenv("HOTSPOT_WINDOW_MINUTES")); err == nil && v > 0 {
		cfg.Window = time.Duration(v) * time.Minute
	}
	if v, err := strconv.ParseFloat(os.Getenv("CONFIDENCE_THRESHOLD"), 64); err == nil && v > 0 && v <= 1 {
		cfg.ConfidenceThreshold = v
	}
	return cfg
}

type Aggregator struct {
	cfg   Config
	clock clockwork.Clock
}

func New(cfg Config, clock clockwork.Clock) *Aggregator {
	return &Aggregator{cfg: cfg, clock: clock}
}

// Result of one aggregation pass. Open carries every still-open candidate,
// surfaced or not; Lapsed carries the candidates whose window closed this
// pass; the review workflow owns the transition to Expired.
type Result struct {
	Open   []types.HotspotCandidate
	Lapsed []types.HotspotCandidate
}

// Aggregate applies the batch's classified posts to the open candidate set
// and returns the updated set. No global state: the caller supplies the
// open candidates and persists the result.
func (a *Aggregator) Aggregate(posts []types.ClassifiedPost, existing []types.HotspotCandidate) Result {
	now := a.clock.Now()

	// Expiry sweep first, so a lapsed candidate cannot absorb this batch's
	// posts.
	var open, lapsed []types.HotspotCandidate
	for _, c := range existing {
		if c.Status != types.Pending {
			continue
		}
		if now.Sub(c.WindowEnd) > a.cfg.Window {
			lapsed = append(lapsed, c)
			continue
		}
		open = append(open, c)
	}

	// Membership across every open candidate, for idempotent re-runs and
	// duplicate attribution.
	member := make(map[string]int)
	for i := range open {
		for _, id := range open[i].PostIDs {
			member[id] = i
		}
		for _, id := range open[i].DuplicateIDs {
			member[id] = i
		}
	}

	ordered := make([]types.ClassifiedPost, len(posts))
	copy(ordered, posts)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, p := range ordered {
		if _, seen := member[p.ID]; seen {
			continue
		}

		// Duplicates never join or move a cluster; they are recorded on
		// the candidate their canonical belongs to as a corroboration
		// signal.
		if p.IsDuplicateOf != "" {
			if i, ok := member[p.IsDuplicateOf]; ok {
				open[i].DuplicateIDs = append(open[i].DuplicateIDs, p.ID)
				open[i].DuplicateCount = len(open[i].DuplicateIDs)
				member[p.ID] = i
			}
			continue
		}

		if !eligible(p, a.cfg.ConfidenceThreshold) {
			continue
		}

		idx := a.nearestCandidate(open, p)
		if idx < 0 {
			open = append(open, a.seedCandidate(p))
			idx = len(open) - 1
		} else {
			join(&open[idx], p)
		}
		member[p.ID] = idx
	}

	promoted := 0
	for i := range open {
		rollupUrgency(&open[i])
		if open[i].PostCount >= a.cfg.PostThreshold && !open[i].Surfaced {
			open[i].Surfaced = true
			promoted++
		}
	}

	if promoted > 0 || len(lapsed) > 0 {
		log.Printf("Aggregation pass: %d open candidates, %d newly surfaced, %d lapsed",
			len(open), promoted, len(lapsed))
	}
	return Result{Open: open, Lapsed: lapsed}
}

func eligible(p types.ClassifiedPost, confidenceThreshold float64) bool {
	return p.Relevance && p.Location != nil && p.Confidence >= confidenceThreshold
}

// nearestCandidate returns the index of the closest open candidate the post
// can join, or -1. Exact distance ties break by lower candidate id.
func (a *Aggregator) nearestCandidate(open []types.HotspotCandidate, p types.ClassifiedPost) int {
	best := -1
	bestDist := math.MaxFloat64
	for i := range open {
		c := &open[i]
		if c.HazardType != p.HazardType {
			continue
		}
		if gap := p.CreatedAt.Sub(c.WindowEnd); gap > a.cfg.Window || gap < -a.cfg.Window {
			continue
		}
		dist := haversineDistance(c.Centroid.Lat, c.Centroid.Lon, p.Location.Lat, p.Location.Lon)
		if dist > a.cfg.RadiusKM {
			continue
		}
		if dist < bestDist || (dist == bestDist && best >= 0 && c.ID < open[best].ID) {
			best = i
			bestDist = dist
		}
	}
	return best
}

func (a *Aggregator) seedCandidate(p types.ClassifiedPost) types.HotspotCandidate {
	c := types.HotspotCandidate{
		ID:          uuid.NewString(),
		HazardType:  p.HazardType,
		Centroid:    *p.Location,
		RadiusKM:    a.cfg.RadiusKM,
		Status:      types.Pending,
		WindowStart: p.CreatedAt,
		WindowEnd:   p.CreatedAt,
	}
	join(&c, p)
	return c
}

// join adds the post to the candidate, recomputing the centroid as the
// running mean of member coordinates.
func join(c *types.HotspotCandidate, p types.ClassifiedPost) {
	n := float64(c.PostCount + 1)
	c.Centroid.Lat += (p.Location.Lat - c.Centroid.Lat) / n
	c.Centroid.Lon += (p.Location.Lon - c.Centroid.Lon) / n

	c.PostIDs = append(c.PostIDs, p.ID)
	c.PostCount++
	if p.Confidence >= highConfidenceFloor {
		c.HighConfidenceCount++
	}
	switch p.Urgency {
	case types.High:
		c.UrgencyCounts.High++
	case types.Medium:
		c.UrgencyCounts.Medium++
	default:
		c.UrgencyCounts.Low++
	}
	if p.CreatedAt.Before(c.WindowStart) {
		c.WindowStart = p.CreatedAt
	}
	if p.CreatedAt.After(c.WindowEnd) {
		c.WindowEnd = p.CreatedAt
	}
}

func rollupUrgency(c *types.HotspotCandidate) {
	if c.PostCount == 0 {
		c.Urgency = types.Low
		return
	}
	total := float64(c.PostCount)
	switch {
	case float64(c.UrgencyCounts.High) >= highUrgencyShare*total:
		c.Urgency = types.High
	case float64(c.UrgencyCounts.Medium) >= mediumUrgencyShare*total:
		c.Urgency = types.Medium
	default:
		c.Urgency = types.Low
	}
}

// haversineDistance calculates the great-circle distance between two points
// on the earth (specified in decimal degrees). A spherical approximation is
// plenty at hotspot-radius scale.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLon1 := lon1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radLon2 := lon2 * math.Pi / 180

	deltaLat := radLat2 - radLat1
	deltaLon := radLon2 - radLon1

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}
