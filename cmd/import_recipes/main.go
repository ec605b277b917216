package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"

	"spizka/internal/config"
	"spizka/internal/db"
	"spizka/internal/normalize"
	"spizka/models"
)

var (
	allergenPattern = regexp.MustCompile(`\[([0-9,\s]+)\]`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
)

// euAllergens maps the EU-mandated allergen numbers to their Czech labels.
var euAllergens = map[int]string{
	1:  "Lepek",
	2:  "Korýši",
	3:  "Vejce",
	4:  "Ryby",
	5:  "Arašídy",
	6:  "Sója",
	7:  "Mléko",
	8:  "Skořápkové plody",
	9:  "Celer",
	10: "Hořčice",
	11: "Sezam",
	12: "Oxid siřičitý",
	13: "Vlčí bob",
	14: "Měkkýši",
}

func main() {
	path := "recipes.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// A PDF argument switches to extraction mode: the plain text of a
	// scanned recipe sheet is printed so it can be turned into a CSV.
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := extractPDFText(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "extract failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprint(os.Stdout, text)
		return
	}

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	records, err := readCSV(csvPath)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	imported, err := importRecords(database, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d recipes from %s\n", imported, filepath.Base(csvPath))
	return nil
}

func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return buf.String(), nil
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func importRecords(database *gorm.DB, records []map[string]string) (int, error) {
	imported := 0
	for idx, record := range records {
		if err := database.Transaction(func(tx *gorm.DB) error {
			row, err := buildRecipeRow(record)
			if err != nil {
				return err
			}
			return upsertRecipe(tx, row)
		}); err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", idx+1, record["Name"], err)
		}
		imported++
	}
	return imported, nil
}

// ingredientSpec is one parsed entry of the Ingredients column.
type ingredientSpec struct {
	Name            string
	Amount          string
	IsMain          bool
	AllergenNumbers []int
}

type recipeRow struct {
	Name            string
	Difficulty      *string
	PrepTimeMinutes *int
	Instructions    string
	Ingredients     []ingredientSpec
}

func buildRecipeRow(record map[string]string) (recipeRow, error) {
	name := strings.TrimSpace(record["Name"])
	if name == "" {
		return recipeRow{}, errors.New("recipe name must not be empty")
	}

	row := recipeRow{
		Name:         name,
		Instructions: normalizeText(record["Instructions"]),
	}

	if difficulty := strings.ToLower(strings.TrimSpace(record["Difficulty"])); difficulty != "" {
		if !models.ValidDifficulty(difficulty) {
			return recipeRow{}, fmt.Errorf("unknown difficulty %q", record["Difficulty"])
		}
		row.Difficulty = &difficulty
	}

	if raw := strings.TrimSpace(record["Prep Time"]); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return recipeRow{}, fmt.Errorf("invalid prep time %q", raw)
		}
		row.PrepTimeMinutes = &minutes
	}

	ingredients, err := parseIngredientList(record["Ingredients"])
	if err != nil {
		return recipeRow{}, err
	}
	if len(ingredients) == 0 {
		return recipeRow{}, errors.New("recipe has no ingredients")
	}
	row.Ingredients = ingredients

	return row, nil
}

// parseIngredientList splits the Ingredients column into specs. Entries are
// semicolon separated; a trailing asterisk on the name marks a main
// ingredient, a colon separates the amount and bracketed digits list EU
// allergen numbers:
//
//	brambory*:1 kg; mléko:200 ml[7]; sůl
func parseIngredientList(value string) ([]ingredientSpec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ";")
	specs := make([]ingredientSpec, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		spec := ingredientSpec{}
		if match := allergenPattern.FindStringSubmatch(part); match != nil {
			numbers, err := parseAllergenNumbers(match[1])
			if err != nil {
				return nil, fmt.Errorf("ingredient %q: %w", part, err)
			}
			spec.AllergenNumbers = numbers
			part = strings.TrimSpace(allergenPattern.ReplaceAllString(part, ""))
		}

		name := part
		if idx := strings.Index(part, ":"); idx >= 0 {
			name = strings.TrimSpace(part[:idx])
			spec.Amount = strings.TrimSpace(part[idx+1:])
		}
		if strings.HasSuffix(name, "*") {
			spec.IsMain = true
			name = strings.TrimSpace(strings.TrimSuffix(name, "*"))
		}
		if name == "" {
			return nil, fmt.Errorf("ingredient entry %q has no name", part)
		}
		spec.Name = name

		key := normalize.Text(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		specs = append(specs, spec)
	}

	return specs, nil
}

func parseAllergenNumbers(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		number, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid allergen number %q", part)
		}
		if _, ok := euAllergens[number]; !ok {
			return nil, fmt.Errorf("allergen number %d out of range", number)
		}
		numbers = append(numbers, number)
	}
	return numbers, nil
}

func upsertRecipe(tx *gorm.DB, row recipeRow) error {
	var recipe models.Recipe
	err := tx.Where("name = ?", row.Name).First(&recipe).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		recipe = models.Recipe{
			Name:            row.Name,
			Difficulty:      row.Difficulty,
			PrepTimeMinutes: row.PrepTimeMinutes,
			Instructions:    row.Instructions,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe %q: %w", row.Name, err)
		}
	case err != nil:
		return fmt.Errorf("find recipe %q: %w", row.Name, err)
	default:
		recipe.Difficulty = row.Difficulty
		recipe.PrepTimeMinutes = row.PrepTimeMinutes
		recipe.Instructions = row.Instructions
		if err := tx.Save(&recipe).Error; err != nil {
			return fmt.Errorf("update recipe %q: %w", row.Name, err)
		}
		// Re-imported recipes replace their ingredient list wholesale.
		if err := tx.Where("recipe_id = ?", recipe.ID).Unscoped().Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear ingredients for %q: %w", row.Name, err)
		}
	}

	for _, spec := range row.Ingredients {
		ingredient, err := ensureIngredient(tx, spec)
		if err != nil {
			return err
		}
		link := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			IsMain:       spec.IsMain,
			Amount:       spec.Amount,
		}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("link ingredient %q to %q: %w", spec.Name, row.Name, err)
		}
	}

	return nil
}

// ensureIngredient finds an ingredient by its normalized name or creates it,
// then attaches any allergens named by EU number.
func ensureIngredient(tx *gorm.DB, spec ingredientSpec) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := tx.Where("name_search = ?", normalize.Text(spec.Name)).First(&ingredient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ingredient = models.Ingredient{Name: spec.Name}
		if err := tx.Create(&ingredient).Error; err != nil {
			return models.Ingredient{}, fmt.Errorf("create ingredient %q: %w", spec.Name, err)
		}
	} else if err != nil {
		return models.Ingredient{}, fmt.Errorf("find ingredient %q: %w", spec.Name, err)
	}

	for _, number := range spec.AllergenNumbers {
		var allergen models.Allergen
		err := tx.Where("number = ?", number).First(&allergen).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			allergen = models.Allergen{Number: number, Name: euAllergens[number]}
			if err := tx.Create(&allergen).Error; err != nil {
				return models.Ingredient{}, fmt.Errorf("create allergen %d: %w", number, err)
			}
		} else if err != nil {
			return models.Ingredient{}, fmt.Errorf("find allergen %d: %w", number, err)
		}
		if err := tx.Model(&ingredient).Association("Allergens").Append(&allergen); err != nil {
			return models.Ingredient{}, fmt.Errorf("attach allergen %d to %q: %w", number, spec.Name, err)
		}
	}

	return ingredient, nil
}

func normalizeText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}
