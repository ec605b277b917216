package mock

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "spizka/internal/log"
	"spizka/models"
)

// New returns an in-memory sqlite database seeded with a representative
// Czech recipe dataset. Used for local development and handler tests;
// similarity queries degrade to substring mode against this store.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:spizka-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Allergen{},
		&models.Category{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	gluten := models.Allergen{Number: 1, Name: "Obiloviny obsahující lepek"}
	eggs := models.Allergen{Number: 3, Name: "Vejce"}
	milk := models.Allergen{Number: 7, Name: "Mléko"}
	for _, allergen := range []*models.Allergen{&gluten, &eggs, &milk} {
		if err := db.WithContext(ctx).Create(allergen).Error; err != nil {
			return err
		}
	}

	vegetables := models.Category{Name: "zelenina"}
	meat := models.Category{Name: "maso"}
	dairy := models.Category{Name: "mléčné výrobky"}
	for _, category := range []*models.Category{&vegetables, &meat, &dairy} {
		if err := db.WithContext(ctx).Create(category).Error; err != nil {
			return err
		}
	}

	beef := models.Ingredient{Name: "hovězí maso", CategoryID: &meat.ID}
	chicken := models.Ingredient{Name: "kuřecí maso", CategoryID: &meat.ID}
	potatoes := models.Ingredient{Name: "brambory", CategoryID: &vegetables.ID}
	onion := models.Ingredient{Name: "cibule", CategoryID: &vegetables.ID}
	carrot := models.Ingredient{Name: "mrkev", CategoryID: &vegetables.ID}
	garlic := models.Ingredient{Name: "česnek", CategoryID: &vegetables.ID}
	paprika := models.Ingredient{Name: "paprika", CategoryID: &vegetables.ID}
	cream := models.Ingredient{Name: "smetana", CategoryID: &dairy.ID, Allergens: []models.Allergen{milk}}
	egg := models.Ingredient{Name: "vejce", Allergens: []models.Allergen{eggs}}
	flour := models.Ingredient{Name: "hladká mouka", Allergens: []models.Allergen{gluten}}
	lentils := models.Ingredient{Name: "čočka"}
	plums := models.Ingredient{Name: "švestky"}

	ingredients := []*models.Ingredient{
		&beef, &chicken, &potatoes, &onion, &carrot, &garlic,
		&paprika, &cream, &egg, &flour, &lentils, &plums,
	}
	for _, ingredient := range ingredients {
		if err := db.WithContext(ctx).Create(ingredient).Error; err != nil {
			return err
		}
	}

	easy := models.DifficultyEasy
	medium := models.DifficultyMedium
	hard := models.DifficultyHard

	type seedRecipe struct {
		recipe models.Recipe
		links  []models.RecipeIngredient
	}

	minutes := func(m int) *int { return &m }

	recipes := []seedRecipe{
		{
			recipe: models.Recipe{
				Name:            "Svíčková na smetaně",
				Difficulty:      &hard,
				PrepTimeMinutes: minutes(180),
				Instructions:    "Maso prošpikujte, orestujte kořenovou zeleninu a duste doměkka.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: beef.ID, IsMain: true, Amount: "800 g"},
				{IngredientID: carrot.ID, IsMain: false, Amount: "2 ks"},
				{IngredientID: cream.ID, IsMain: false, Amount: "250 ml"},
				{IngredientID: onion.ID, IsMain: false, Amount: "1 ks"},
			},
		},
		{
			recipe: models.Recipe{
				Name:            "Kuřecí paprikáš",
				Difficulty:      &medium,
				PrepTimeMinutes: minutes(60),
				Instructions:    "Cibuli zpěňte, přidejte papriku a kuře, nakonec zjemněte smetanou.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: chicken.ID, IsMain: true, Amount: "600 g"},
				{IngredientID: paprika.ID, IsMain: false, Amount: "2 lžíce"},
				{IngredientID: onion.ID, IsMain: false, Amount: "2 ks"},
				{IngredientID: cream.ID, IsMain: false, Amount: "200 ml"},
			},
		},
		{
			recipe: models.Recipe{
				Name:            "Bramborák",
				Difficulty:      &easy,
				PrepTimeMinutes: minutes(30),
				Instructions:    "Nastrouhané brambory smíchejte s moukou, vejcem a česnekem, smažte placky.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: potatoes.ID, IsMain: true, Amount: "1 kg"},
				{IngredientID: flour.ID, IsMain: true, Amount: "150 g"},
				{IngredientID: egg.ID, IsMain: false, Amount: "2 ks"},
				{IngredientID: garlic.ID, IsMain: false, Amount: "4 stroužky"},
			},
		},
		{
			recipe: models.Recipe{
				Name:            "Bramborová polévka",
				Difficulty:      &easy,
				PrepTimeMinutes: minutes(45),
				Instructions:    "Zeleninu poduste, zalijte vodou a vařte s bramborami doměkka.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: potatoes.ID, IsMain: true, Amount: "500 g"},
				{IngredientID: carrot.ID, IsMain: false, Amount: "1 ks"},
				{IngredientID: onion.ID, IsMain: false, Amount: "1 ks"},
				{IngredientID: garlic.ID, IsMain: false, Amount: "2 stroužky"},
			},
		},
		{
			recipe: models.Recipe{
				Name:            "Čočka na kyselo",
				Difficulty:      &medium,
				PrepTimeMinutes: minutes(50),
				Instructions:    "Uvařenou čočku zahustěte a dochuťte octem, podávejte s cibulkou.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: lentils.ID, IsMain: true, Amount: "400 g"},
				{IngredientID: onion.ID, IsMain: false, Amount: "1 ks"},
				{IngredientID: flour.ID, IsMain: false, Amount: "1 lžíce"},
			},
		},
		{
			recipe: models.Recipe{
				Name:            "Švestkové knedlíky",
				Difficulty:      &medium,
				PrepTimeMinutes: minutes(90),
				Instructions:    "Z bramborového těsta zabalte švestky a vařte v osolené vodě.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: plums.ID, IsMain: true, Amount: "500 g"},
				{IngredientID: potatoes.ID, IsMain: true, Amount: "600 g"},
				{IngredientID: flour.ID, IsMain: false, Amount: "250 g"},
				{IngredientID: egg.ID, IsMain: false, Amount: "1 ks"},
			},
		},
		{
			recipe: models.Recipe{
				Name:            "Hovězí guláš",
				Difficulty:      &medium,
				PrepTimeMinutes: minutes(150),
				Instructions:    "Orestujte cibuli a maso, zaprašte paprikou a duste do změknutí.",
			},
			links: []models.RecipeIngredient{
				{IngredientID: beef.ID, IsMain: true, Amount: "700 g"},
				{IngredientID: onion.ID, IsMain: false, Amount: "3 ks"},
				{IngredientID: paprika.ID, IsMain: false, Amount: "1 lžíce"},
			},
		},
	}

	for _, entry := range recipes {
		recipe := entry.recipe
		if err := db.WithContext(ctx).Create(&recipe).Error; err != nil {
			return err
		}
		for _, link := range entry.links {
			link.RecipeID = recipe.ID
			if err := db.WithContext(ctx).Create(&link).Error; err != nil {
				return err
			}
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
