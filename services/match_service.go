package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"bonded_server/models"
)

// Filtered (smart-match) scoring weights. Each supplied filter is a hard
// gate: failing it zeroes the candidate, passing it awards the gate bonus.
// Unlike the ranked path below, this path is intentionally uncapped; the
// asymmetry is long-standing behavior the clients depend on.
const (
	gateBonusLookingFor   = 30
	gateBonusMajor        = 20
	gateBonusYear         = 10
	gateBonusAcademicGoal = 25
	gateBonusLeisureGoal  = 25

	bonusPerSharedInterest     = 5
	bonusPerSharedAcademicGoal = 10
	bonusPerSharedLeisureGoal  = 10
	bonusSameMajor             = 15
	bonusSameYear              = 10
)

// Unfiltered (ranked) scoring weights, with per-category caps.
const (
	rankedInterestWeight    = 6
	rankedInterestCap       = 30
	rankedPersonalityWeight = 8
	rankedPersonalityCap    = 25
	rankedSleepBonus        = 8
	rankedCleanlinessBonus  = 8
	rankedNoiseBonus        = 9
	rankedLookingForWeight  = 10
	rankedLookingForCap     = 20

	rankedScoreThreshold = 40
	rankedResultLimit    = 10
)

// Bond-print blend: combined = 0.4*match + 0.6*bondPrint when both profiles
// carry a bond print.
const (
	blendMatchWeight     = 0.4
	blendBondPrintWeight = 0.6
)

// MatchFilters narrows the smart-match candidate pool. Empty or "all"
// means the filter is not applied.
type MatchFilters struct {
	LookingFor   string
	Major        string
	Year         string
	AcademicGoal string
	LeisureGoal  string
}

func filterSet(value string) bool {
	return value != "" && !strings.EqualFold(value, "all")
}

// RankedMatch is one /matches entry.
type RankedMatch struct {
	Profile    models.Profile `json:"profile"`
	MatchScore int            `json:"matchScore"`
	Reason     string         `json:"reason"`
}

// SmartMatch is one smart-matches entry: the candidate profile plus the
// secondary bond-print compatibility when both sides have taken the quiz.
type SmartMatch struct {
	models.Profile
	MatchScore             int  `json:"matchScore"`
	BondPrintCompatibility *int `json:"bondPrintCompatibility,omitempty"`

	combined float64
}

// CompatibilityResult is the pairwise /compatibility response.
type CompatibilityResult struct {
	Score            int      `json:"score"`
	CommonInterests  []string `json:"commonInterests"`
	CommonLookingFor []string `json:"commonLookingFor"`
	Analysis         string   `json:"analysis"`
}

// BondPrintScorer computes the secondary 0-100 compatibility between two
// bond prints. Injected so the quiz backend can evolve independently.
type BondPrintScorer func(a, b *models.BondPrint) int

// MatchService computes compatibility scores between profiles. Scoring is
// pure; the store is only touched to load candidate pools.
type MatchService struct {
	Profiles       *ProfileService
	BondPrintScore BondPrintScorer
}

func NewMatchService(profiles *ProfileService) *MatchService {
	return &MatchService{
		Profiles:       profiles,
		BondPrintScore: TraitBondPrintScore,
	}
}

// CalculateMatchScore scores a candidate against the caller's profile under
// the supplied filter set. Any failed gate returns exactly 0.
func (ms *MatchService) CalculateMatchScore(me, candidate *models.Profile, filters MatchFilters) int {
	score := 0

	if filterSet(filters.LookingFor) {
		if !contains(candidate.LookingFor, filters.LookingFor) {
			return 0
		}
		score += gateBonusLookingFor
	}
	if filterSet(filters.Major) {
		if candidate.Major != filters.Major {
			return 0
		}
		score += gateBonusMajor
	}
	if filterSet(filters.Year) {
		if candidate.Year != filters.Year {
			return 0
		}
		score += gateBonusYear
	}
	if filterSet(filters.AcademicGoal) {
		if !contains(candidate.Goals.Academic, filters.AcademicGoal) {
			return 0
		}
		score += gateBonusAcademicGoal
	}
	if filterSet(filters.LeisureGoal) {
		if !contains(candidate.Goals.Leisure, filters.LeisureGoal) {
			return 0
		}
		score += gateBonusLeisureGoal
	}

	score += bonusPerSharedInterest * sharedCount(me.Interests, candidate.Interests)
	score += bonusPerSharedAcademicGoal * sharedCount(me.Goals.Academic, candidate.Goals.Academic)
	score += bonusPerSharedLeisureGoal * sharedCount(me.Goals.Leisure, candidate.Goals.Leisure)
	if me.Major != "" && me.Major == candidate.Major {
		score += bonusSameMajor
	}
	if me.Year != "" && me.Year == candidate.Year {
		score += bonusSameYear
	}
	return score
}

// RankedScore is the unconditional same-school score used by /matches.
func (ms *MatchService) RankedScore(me, candidate *models.Profile) int {
	score := min(rankedInterestCap, rankedInterestWeight*sharedCount(me.Interests, candidate.Interests))
	score += min(rankedPersonalityCap, rankedPersonalityWeight*sharedCount(me.Personality, candidate.Personality))
	if me.LivingHabits.SleepSchedule != "" && me.LivingHabits.SleepSchedule == candidate.LivingHabits.SleepSchedule {
		score += rankedSleepBonus
	}
	if me.LivingHabits.Cleanliness != "" && me.LivingHabits.Cleanliness == candidate.LivingHabits.Cleanliness {
		score += rankedCleanlinessBonus
	}
	if me.LivingHabits.Noise != "" && me.LivingHabits.Noise == candidate.LivingHabits.Noise {
		score += rankedNoiseBonus
	}
	score += min(rankedLookingForCap, rankedLookingForWeight*sharedCount(me.LookingFor, candidate.LookingFor))
	return score
}

// MatchReason builds the human-readable rationale for a ranked match: up to
// two fragments, each naming concrete shared attributes.
func (ms *MatchService) MatchReason(me, candidate *models.Profile) string {
	var fragments []string

	if shared := sharedValues(me.Interests, candidate.Interests); len(shared) > 0 {
		fragments = append(fragments, "you both enjoy "+joinLimited(shared, 2))
	}
	if shared := sharedValues(me.Personality, candidate.Personality); len(shared) > 0 {
		fragments = append(fragments, "you're both "+joinLimited(shared, 2))
	}
	if shared := sharedValues(me.LookingFor, candidate.LookingFor); len(shared) > 0 {
		fragments = append(fragments, "you're both looking for "+joinLimited(shared, 2))
	}

	if len(fragments) > 2 {
		fragments = fragments[:2]
	}
	if len(fragments) == 0 {
		return "Similar living habits"
	}
	reason := strings.Join(fragments, " and ")
	return strings.ToUpper(reason[:1]) + reason[1:]
}

// TopMatches scores every same-school candidate, keeps those at or above
// the threshold, and returns the top entries sorted by score descending.
func (ms *MatchService) TopMatches(ctx context.Context, userID string) ([]RankedMatch, error) {
	me, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if me == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}

	pool, err := ms.Profiles.SchoolProfiles(ctx, me.School)
	if err != nil {
		return nil, err
	}

	matches := make([]RankedMatch, 0, len(pool))
	for i := range pool {
		candidate := &pool[i]
		if candidate.ID == me.ID {
			continue
		}
		score := ms.RankedScore(me, candidate)
		if score < rankedScoreThreshold {
			continue
		}
		matches = append(matches, RankedMatch{
			Profile:    *candidate,
			MatchScore: score,
			Reason:     ms.MatchReason(me, candidate),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	if len(matches) > rankedResultLimit {
		matches = matches[:rankedResultLimit]
	}
	return matches, nil
}

// SmartMatches runs filtered scoring over the caller's school pool and
// ranks the survivors by the bond-print-blended score.
func (ms *MatchService) SmartMatches(ctx context.Context, userID string, filters MatchFilters) ([]SmartMatch, error) {
	me, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if me == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}

	pool, err := ms.Profiles.SchoolProfiles(ctx, me.School)
	if err != nil {
		return nil, err
	}

	matches := make([]SmartMatch, 0, len(pool))
	for i := range pool {
		candidate := &pool[i]
		if candidate.ID == me.ID {
			continue
		}
		score := ms.CalculateMatchScore(me, candidate, filters)
		if score == 0 {
			continue
		}

		match := SmartMatch{Profile: *candidate, MatchScore: score, combined: float64(score)}
		if me.BondPrint != nil && candidate.BondPrint != nil {
			compat := ms.BondPrintScore(me.BondPrint, candidate.BondPrint)
			match.BondPrintCompatibility = &compat
			match.combined = blendMatchWeight*float64(score) + blendBondPrintWeight*float64(compat)
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].combined > matches[j].combined
	})
	return matches, nil
}

// Compatibility computes the pairwise score and rationale between the
// caller and a target user.
func (ms *MatchService) Compatibility(ctx context.Context, userID, targetUserID string) (*CompatibilityResult, error) {
	me, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := ms.Profiles.GetProfile(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if me == nil || target == nil {
		return nil, fmt.Errorf("%w: profile", ErrNotFound)
	}

	return &CompatibilityResult{
		Score:            ms.RankedScore(me, target),
		CommonInterests:  sharedValues(me.Interests, target.Interests),
		CommonLookingFor: sharedValues(me.LookingFor, target.LookingFor),
		Analysis:         ms.MatchReason(me, target),
	}, nil
}

// TraitBondPrintScore is the default secondary scorer: average closeness
// over the trait dimensions both prints share, scaled to 0-100. Prints
// with no overlapping dimensions read as neutral.
func TraitBondPrintScore(a, b *models.BondPrint) int {
	if a == nil || b == nil {
		return 0
	}
	var total float64
	var shared int
	for dimension, av := range a.Traits {
		bv, ok := b.Traits[dimension]
		if !ok {
			continue
		}
		total += 1 - math.Abs(av-bv)
		shared++
	}
	if shared == 0 {
		return 50
	}
	return int(math.Round(total / float64(shared) * 100))
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sharedValues(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	shared := []string{}
	for _, v := range a {
		if set[v] {
			shared = append(shared, v)
			set[v] = false
		}
	}
	return shared
}

func sharedCount(a, b []string) int {
	return len(sharedValues(a, b))
}

func joinLimited(values []string, limit int) string {
	if len(values) > limit {
		values = values[:limit]
	}
	if len(values) == 2 {
		return values[0] + " and " + values[1]
	}
	return strings.Join(values, ", ")
}
