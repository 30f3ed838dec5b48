package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samrat222/calorieTracker-BE/config"
)

// NutritionClient resolves a recognized food name to an approximate
// nutrition profile via the Edamam food-database API. App keys rotate
// through a KeyPool so a rate-limited key does not stall every request.
type NutritionClient struct {
	appID  string
	keys   *config.KeyPool
	client *http.Client
}

func NewNutritionClient(appID string, keys *config.KeyPool) *NutritionClient {
	return &NutritionClient{
		appID:  appID,
		keys:   keys,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the client has credentials to call out with.
func (c *NutritionClient) Configured() bool {
	return c != nil && c.appID != "" && c.keys != nil && c.keys.Size() > 0
}

type FoodNutrition struct {
	Name     string
	Calories int // kcal per typical serving
	Protein  float64
	Carbs    float64
	Fats     float64
}

type parserNutrients struct {
	Kcal    float64 `json:"ENERC_KCAL"`
	Protein float64 `json:"PROCNT"`
	Fat     float64 `json:"FAT"`
	Carbs   float64 `json:"CHOCDF"`
}

type parserFood struct {
	Label     string          `json:"label"`
	Nutrients parserNutrients `json:"nutrients"`
}

type foodParserResponse struct {
	Parsed []struct {
		Food parserFood `json:"food"`
	} `json:"parsed"`
	Hints []struct {
		Food parserFood `json:"food"`
	} `json:"hints"`
}

func (c *NutritionClient) Lookup(ctx context.Context, foodName string) (*FoodNutrition, error) {
	u := fmt.Sprintf(
		"https://api.edamam.com/api/food-database/v2/parser?ingr=%s&app_id=%s&app_key=%s",
		url.QueryEscape(foodName), c.appID, c.keys.Next(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nutrition parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}

	var f *parserFood
	if len(pr.Parsed) > 0 {
		f = &pr.Parsed[0].Food
	} else if len(pr.Hints) > 0 {
		f = &pr.Hints[0].Food
	}
	if f == nil {
		return nil, fmt.Errorf("no nutrition match for %q", foodName)
	}
	return &FoodNutrition{
		Name:     f.Label,
		Calories: int(f.Nutrients.Kcal),
		Protein:  f.Nutrients.Protein,
		Carbs:    f.Nutrients.Carbs,
		Fats:     f.Nutrients.Fat,
	}, nil
}
