package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/redis/go-redis/v9"
)

// Analysis results are cached a full day: the same photo always yields
// the same labels and re-billing the detect call buys nothing.
const visionCacheTTL = 24 * time.Hour

// VisionService turns a food photo into an estimated meal: Rekognition
// labels the image, the nutrition client (or the built-in table when it
// is unconfigured) prices each label. Results are cached in Redis keyed
// by the image's SHA-256 so identical uploads skip the AI call entirely.
type VisionService struct {
	rek       *rekognition.Client
	nutrition *NutritionClient
	cache     *redis.Client // nil disables caching
}

func NewVisionService(awsCfg aws.Config, nutrition *NutritionClient, cache *redis.Client) *VisionService {
	return &VisionService{
		rek:       rekognition.NewFromConfig(awsCfg),
		nutrition: nutrition,
		cache:     cache,
	}
}

type MealAnalysis struct {
	Description   string          `json:"description"`
	Labels        []string        `json:"labels"`
	TotalCalories int             `json:"total_calories"`
	Protein       float64         `json:"protein"`
	Carbs         float64         `json:"carbs"`
	Fats          float64         `json:"fats"`
	FoodItems     []FoodItemInput `json:"food_items"`
	Cached        bool            `json:"cached"`
}

// AnalyzeMealImage accepts a "data:image/...;base64," data URI.
func (v *VisionService) AnalyzeMealImage(ctx context.Context, dataURI string) (*MealAnalysis, error) {
	imgBytes, err := decodeImageDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(imgBytes)
	cacheKey := "vision:" + hex.EncodeToString(sum[:])

	if v.cache != nil {
		if raw, err := v.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached MealAnalysis
			if json.Unmarshal(raw, &cached) == nil {
				cached.Cached = true
				return &cached, nil
			}
		}
	}

	out, err := v.rek.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imgBytes},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}

	analysis := v.estimate(ctx, labels)

	if v.cache != nil {
		if raw, err := json.Marshal(analysis); err == nil {
			if err := v.cache.Set(ctx, cacheKey, raw, visionCacheTTL).Err(); err != nil {
				log.Printf("vision cache write failed: %v", err)
			}
		}
	}
	return analysis, nil
}

// estimate builds food items for the recognized food labels. Generic
// labels ("Food", "Plate", "Meal") are skipped; at most three items.
func (v *VisionService) estimate(ctx context.Context, labels []string) *MealAnalysis {
	analysis := &MealAnalysis{Labels: labels}

	var named []string
	for _, l := range labels {
		if isGenericLabel(l) {
			continue
		}
		named = append(named, l)
		if len(named) == 3 {
			break
		}
	}

	for _, name := range named {
		nut := v.lookup(ctx, name)
		if nut == nil {
			continue
		}
		analysis.FoodItems = append(analysis.FoodItems, FoodItemInput{
			Name:     nut.Name,
			Quantity: 1,
			Unit:     "serving",
			Calories: nut.Calories,
			Protein:  nut.Protein,
			Carbs:    nut.Carbs,
			Fats:     nut.Fats,
		})
		analysis.TotalCalories += nut.Calories
		analysis.Protein += nut.Protein
		analysis.Carbs += nut.Carbs
		analysis.Fats += nut.Fats
	}

	if len(named) > 0 {
		analysis.Description = strings.Join(named, ", ")
	} else if len(labels) > 0 {
		analysis.Description = labels[0]
	}
	return analysis
}

func (v *VisionService) lookup(ctx context.Context, name string) *FoodNutrition {
	if v.nutrition.Configured() {
		nut, err := v.nutrition.Lookup(ctx, name)
		if err == nil {
			return nut
		}
		log.Printf("nutrition lookup for %q failed, falling back to table: %v", name, err)
	}
	if nut, ok := servingTable[strings.ToLower(name)]; ok {
		out := nut
		out.Name = name
		return &out
	}
	return nil
}

func decodeImageDataURI(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, "data:image") {
		return nil, errors.New("invalid data URI")
	}
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid data URI")
	}
	return base64.StdEncoding.DecodeString(parts[1])
}

func isGenericLabel(l string) bool {
	switch strings.ToLower(l) {
	case "food", "meal", "dish", "plate", "cutlery", "lunch", "dinner", "breakfast", "brunch", "produce", "cooking":
		return true
	}
	return false
}

// Rough per-serving values used when no nutrition API is configured.
var servingTable = map[string]FoodNutrition{
	"pizza":     {Calories: 285, Protein: 12, Carbs: 36, Fats: 10},
	"burger":    {Calories: 354, Protein: 17, Carbs: 30, Fats: 17},
	"hamburger": {Calories: 354, Protein: 17, Carbs: 30, Fats: 17},
	"sandwich":  {Calories: 250, Protein: 11, Carbs: 28, Fats: 9},
	"salad":     {Calories: 120, Protein: 3, Carbs: 10, Fats: 8},
	"rice":      {Calories: 205, Protein: 4, Carbs: 45, Fats: 0.5},
	"pasta":     {Calories: 220, Protein: 8, Carbs: 43, Fats: 1.5},
	"chicken":   {Calories: 230, Protein: 27, Carbs: 0, Fats: 13},
	"fish":      {Calories: 180, Protein: 25, Carbs: 0, Fats: 8},
	"steak":     {Calories: 270, Protein: 26, Carbs: 0, Fats: 18},
	"egg":       {Calories: 78, Protein: 6, Carbs: 0.6, Fats: 5},
	"bread":     {Calories: 80, Protein: 3, Carbs: 15, Fats: 1},
	"soup":      {Calories: 150, Protein: 6, Carbs: 18, Fats: 5},
	"fruit":     {Calories: 90, Protein: 1, Carbs: 23, Fats: 0.3},
	"banana":    {Calories: 105, Protein: 1.3, Carbs: 27, Fats: 0.4},
	"apple":     {Calories: 95, Protein: 0.5, Carbs: 25, Fats: 0.3},
	"yogurt":    {Calories: 150, Protein: 8, Carbs: 17, Fats: 4},
	"pancake":   {Calories: 175, Protein: 4, Carbs: 22, Fats: 7},
	"noodles":   {Calories: 220, Protein: 7, Carbs: 40, Fats: 3},
	"curry":     {Calories: 300, Protein: 14, Carbs: 20, Fats: 18},
	"sushi":     {Calories: 200, Protein: 9, Carbs: 38, Fats: 1},
}
