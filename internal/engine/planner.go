package engine

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// PlanSize is the target number of recipes in a zero-waste plan.
const PlanSize = 5

// shortlistSize bounds the randomized pick at each greedy step.
const shortlistSize = 3

// PlanMode selects the planner objective.
type PlanMode string

const (
	// ModeOverlap maximizes shared ingredients across the selected set.
	ModeOverlap PlanMode = "overlap"
	// ModeDiverse minimizes shared ingredients instead.
	ModeDiverse PlanMode = "diverse"
)

// ParsePlanMode maps raw client input onto a mode, defaulting to overlap.
func ParsePlanMode(value string) PlanMode {
	if value == string(ModeDiverse) {
		return ModeDiverse
	}
	return ModeOverlap
}

// Rand is the injectable randomness source behind seed selection and the
// shortlist tie-break, so tests can pin sequences.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a time-seeded source safe for concurrent requests.
func NewRand() Rand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// PlanRequest configures one zero-waste run.
type PlanRequest struct {
	Mode                PlanMode
	SeedRecipeID        uint
	ExcludedAllergenIDs []uint
}

// PlanIngredient is one line of a selected recipe's ingredient list.
type PlanIngredient struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	IsMain bool   `json:"isMain"`
}

// PlanRecipe is one selected recipe with its full ingredient list.
type PlanRecipe struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Difficulty      *string          `json:"difficulty"`
	PrepTimeMinutes *int             `json:"prepTimeMinutes"`
	Ingredients     []PlanIngredient `json:"ingredients"`
}

// ShoppingItem is one distinct ingredient across the plan with the recipes
// that use it.
type ShoppingItem struct {
	ID     uint     `json:"id"`
	Name   string   `json:"name"`
	UsedIn []string `json:"usedIn"`
}

// PlanStats summarizes ingredient sharing across the plan.
type PlanStats struct {
	TotalIngredients  int `json:"totalIngredients"`
	SharedIngredients int `json:"sharedIngredients"`
}

// Plan is the zero-waste planner output.
type Plan struct {
	Recipes      []PlanRecipe   `json:"recipes"`
	ShoppingList []ShoppingItem `json:"shoppingList"`
	Stats        PlanStats      `json:"stats"`
}

// BuildPlan runs the randomized greedy selection: pick a seed (requested or
// random), then repeatedly score the remaining recipes by ingredient overlap
// with the basket so far and pick uniformly from the top three. Repeated
// calls with the same snapshot vary, which is the point; pin rng to make the
// run reproducible. Fewer than PlanSize eligible recipes short-circuits to
// returning them all, and an empty pool yields an empty, zero-stat plan.
func BuildPlan(recipes []Recipe, req PlanRequest, rng Rand) Plan {
	eligible := Filters{ExcludedAllergenIDs: req.ExcludedAllergenIDs}.Apply(recipes)

	if len(eligible) < PlanSize {
		return buildPlanResponse(eligible)
	}

	selected := make([]Recipe, 0, PlanSize)
	remaining := make([]Recipe, len(eligible))
	copy(remaining, eligible)

	seedIdx := -1
	if req.SeedRecipeID != 0 {
		for i, recipe := range remaining {
			if recipe.ID == req.SeedRecipeID {
				seedIdx = i
				break
			}
		}
	}
	if seedIdx < 0 {
		seedIdx = rng.Intn(len(remaining))
	}
	selected = append(selected, remaining[seedIdx])
	remaining = append(remaining[:seedIdx], remaining[seedIdx+1:]...)

	for len(selected) < PlanSize && len(remaining) > 0 {
		basket := make(map[uint]struct{})
		for _, recipe := range selected {
			for id := range recipe.IngredientIDs() {
				basket[id] = struct{}{}
			}
		}

		type candidate struct {
			idx     int
			overlap int
		}
		scored := make([]candidate, len(remaining))
		for i, recipe := range remaining {
			overlap := 0
			for id := range recipe.IngredientIDs() {
				if _, shared := basket[id]; shared {
					overlap++
				}
			}
			scored[i] = candidate{idx: i, overlap: overlap}
		}

		sort.SliceStable(scored, func(i, j int) bool {
			a, b := scored[i], scored[j]
			if a.overlap != b.overlap {
				if req.Mode == ModeDiverse {
					return a.overlap < b.overlap
				}
				return a.overlap > b.overlap
			}
			// deterministic order among equal overlaps keeps the
			// shortlist stable for a pinned rng
			if remaining[a.idx].Name != remaining[b.idx].Name {
				return remaining[a.idx].Name < remaining[b.idx].Name
			}
			return remaining[a.idx].ID < remaining[b.idx].ID
		})

		top := shortlistSize
		if top > len(scored) {
			top = len(scored)
		}
		chosen := scored[rng.Intn(top)].idx

		selected = append(selected, remaining[chosen])
		remaining = append(remaining[:chosen], remaining[chosen+1:]...)
	}

	return buildPlanResponse(selected)
}

func buildPlanResponse(selected []Recipe) Plan {
	plan := Plan{
		Recipes:      make([]PlanRecipe, 0, len(selected)),
		ShoppingList: []ShoppingItem{},
	}

	type usage struct {
		name   string
		usedIn []string
	}
	usageByID := make(map[uint]*usage)
	var order []uint

	for _, recipe := range selected {
		planRecipe := PlanRecipe{
			ID:              recipe.ID,
			Name:            recipe.Name,
			Difficulty:      recipe.Difficulty,
			PrepTimeMinutes: recipe.PrepTimeMinutes,
			Ingredients:     make([]PlanIngredient, 0, len(recipe.Ingredients)),
		}
		for _, ing := range recipe.Ingredients {
			planRecipe.Ingredients = append(planRecipe.Ingredients, PlanIngredient{
				ID:     ing.IngredientID,
				Name:   ing.Name,
				Amount: ing.Amount,
				IsMain: ing.IsMain,
			})
		}
		plan.Recipes = append(plan.Recipes, planRecipe)

		for _, ing := range recipe.Ingredients {
			entry, known := usageByID[ing.IngredientID]
			if !known {
				entry = &usage{name: ing.Name}
				usageByID[ing.IngredientID] = entry
				order = append(order, ing.IngredientID)
			}
			entry.usedIn = append(entry.usedIn, recipe.Name)
		}
	}

	for _, id := range order {
		entry := usageByID[id]
		plan.ShoppingList = append(plan.ShoppingList, ShoppingItem{
			ID:     id,
			Name:   entry.name,
			UsedIn: entry.usedIn,
		})
	}

	sort.SliceStable(plan.ShoppingList, func(i, j int) bool {
		a, b := plan.ShoppingList[i], plan.ShoppingList[j]
		if len(a.UsedIn) != len(b.UsedIn) {
			return len(a.UsedIn) > len(b.UsedIn)
		}
		return a.Name < b.Name
	})

	plan.Stats.TotalIngredients = len(plan.ShoppingList)
	for _, item := range plan.ShoppingList {
		if len(item.UsedIn) > 1 {
			plan.Stats.SharedIngredients++
		}
	}

	return plan
}
