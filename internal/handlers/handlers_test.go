package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"spizka/internal/engine"
	"spizka/internal/store"
	"spizka/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	originalDB := database
	originalStore := recipeStore
	originalCache := vocabularyCache
	originalRand := planRand

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Allergen{},
		&models.Category{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	database = db
	recipeStore = store.New(db, 0.3)
	vocabularyCache = engine.NewVocabularyCache(recipeStore)
	planRand = engine.NewRand()

	return db, func() {
		database = originalDB
		recipeStore = originalStore
		vocabularyCache = originalCache
		planRand = originalRand
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// seedTestRecipes creates a small Czech recipe set: a dairy dish, a potato
// pancake and a dumpling dessert. Returns ingredient IDs keyed by name.
func seedTestRecipes(t *testing.T, db *gorm.DB) map[string]uint {
	t.Helper()

	milk := models.Allergen{Number: 7, Name: "Mléko"}
	if err := db.Create(&milk).Error; err != nil {
		t.Fatalf("failed to create allergen: %v", err)
	}

	names := []string{"brambory", "vejce", "mléko", "kuřecí maso", "paprika"}
	ingredients := make(map[string]uint, len(names))
	for _, name := range names {
		ingredient := models.Ingredient{Name: name}
		if name == "mléko" {
			ingredient.Allergens = []models.Allergen{milk}
		}
		if err := db.Create(&ingredient).Error; err != nil {
			t.Fatalf("failed to create ingredient %s: %v", name, err)
		}
		ingredients[name] = ingredient.ID
	}

	medium := models.DifficultyMedium
	easy := models.DifficultyEasy
	hard := models.DifficultyHard
	sixty, thirty, fortyFive := 60, 30, 45

	recipes := []models.Recipe{
		{
			Name:            "Kuřecí paprikáš",
			Difficulty:      &medium,
			PrepTimeMinutes: &sixty,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: ingredients["kuřecí maso"], IsMain: true, Amount: "500 g"},
				{IngredientID: ingredients["paprika"], IsMain: true, Amount: "2 lžíce"},
				{IngredientID: ingredients["mléko"], IsMain: false, Amount: "200 ml"},
			},
		},
		{
			Name:            "Bramborák",
			Difficulty:      &easy,
			PrepTimeMinutes: &thirty,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: ingredients["brambory"], IsMain: true, Amount: "1 kg"},
				{IngredientID: ingredients["vejce"], IsMain: true, Amount: "2 ks"},
			},
		},
		{
			Name:            "Švestkové knedlíky",
			Difficulty:      &hard,
			PrepTimeMinutes: &fortyFive,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: ingredients["brambory"], IsMain: true, Amount: "600 g"},
				{IngredientID: ingredients["vejce"], IsMain: false, Amount: "1 ks"},
			},
		},
	}
	for i := range recipes {
		if err := db.Create(&recipes[i]).Error; err != nil {
			t.Fatalf("failed to create recipe %s: %v", recipes[i].Name, err)
		}
	}

	return ingredients
}

// sessionRequest attaches a loaded session context so handlers can read and
// write session values without the LoadAndSave middleware.
func sessionRequest(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}
