package services

import (
	"context"
	"encoding/base64"
	"testing"
)

func TestDecodeImageDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid png uri", "data:image/png;base64," + payload, false},
		{"valid jpeg uri", "data:image/jpeg;base64," + payload, false},
		{"not a data uri", "https://example.com/pic.png", true},
		{"missing comma", "data:image/png;base64", true},
		{"bad base64", "data:image/png;base64,@@@@", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeImageDataURI(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeImageDataURI error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(got) != "fake-png-bytes" {
				t.Fatalf("decoded = %q, want fake-png-bytes", got)
			}
		})
	}
}

func TestEstimateSkipsGenericLabelsAndCaps(t *testing.T) {
	v := &VisionService{nutrition: NewNutritionClient("", nil)}

	labels := []string{"Food", "Plate", "Pizza", "Salad", "Rice", "Pasta"}
	got := v.estimate(context.Background(), labels)

	// Pizza, Salad, Rice make the cut; Pasta is over the three-item cap.
	if len(got.FoodItems) != 3 {
		t.Fatalf("food items = %d, want 3", len(got.FoodItems))
	}
	if got.Description != "Pizza, Salad, Rice" {
		t.Errorf("Description = %q, want %q", got.Description, "Pizza, Salad, Rice")
	}
	wantCalories := 285 + 120 + 205
	if got.TotalCalories != wantCalories {
		t.Errorf("TotalCalories = %d, want %d", got.TotalCalories, wantCalories)
	}
	for _, it := range got.FoodItems {
		if it.Quantity != 1 || it.Unit != "serving" {
			t.Errorf("item %q = %v %s, want 1 serving", it.Name, it.Quantity, it.Unit)
		}
	}
}

func TestEstimateAllGenericFallsBackToFirstLabel(t *testing.T) {
	v := &VisionService{nutrition: NewNutritionClient("", nil)}

	got := v.estimate(context.Background(), []string{"Food", "Meal"})
	if len(got.FoodItems) != 0 {
		t.Fatalf("food items = %d, want 0", len(got.FoodItems))
	}
	if got.Description != "Food" {
		t.Errorf("Description = %q, want %q", got.Description, "Food")
	}
}

func TestEstimateUnknownLabelYieldsNoItem(t *testing.T) {
	v := &VisionService{nutrition: NewNutritionClient("", nil)}

	got := v.estimate(context.Background(), []string{"Spacecraft"})
	if len(got.FoodItems) != 0 {
		t.Fatalf("food items = %d, want 0 for a label outside the table", len(got.FoodItems))
	}
	if got.TotalCalories != 0 {
		t.Errorf("TotalCalories = %d, want 0", got.TotalCalories)
	}
}

func TestIsGenericLabel(t *testing.T) {
	for _, l := range []string{"Food", "food", "PLATE", "Dish", "Brunch"} {
		if !isGenericLabel(l) {
			t.Errorf("isGenericLabel(%q) = false, want true", l)
		}
	}
	for _, l := range []string{"Pizza", "Sushi", "Banana"} {
		if isGenericLabel(l) {
			t.Errorf("isGenericLabel(%q) = true, want false", l)
		}
	}
}
