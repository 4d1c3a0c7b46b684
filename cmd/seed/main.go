// Command seed loads an initial category tree and a handful of sample
// activities into MongoDB. Running it against a non-empty database is a
// no-op so it can be re-run safely.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/prefs"
	"github.com/playfriends/playfriends/internal/infra/config"
	"github.com/playfriends/playfriends/internal/infra/mongostore"
	"github.com/playfriends/playfriends/pkg/logger"
)

type seedCategory struct {
	name       string
	typ        catalog.ActivityType
	parentName string
	play       *prefs.PlayVector
}

type seedActivity struct {
	name         string
	typ          catalog.ActivityType
	categoryName string
	location     *catalog.GeoPoint
	food         *prefs.FoodAttributes
	play         *prefs.PlayVector
}

var categories = []seedCategory{
	{name: "korean food", typ: catalog.TypeFood},
	{name: "japanese food", typ: catalog.TypeFood},
	{name: "indoor activity", typ: catalog.TypePlay},
	{name: "outdoor activity", typ: catalog.TypePlay},

	{name: "restaurant", typ: catalog.TypeFood},
	{name: "bar", typ: catalog.TypeFood},

	{name: "korean bbq", typ: catalog.TypeFood, parentName: "korean food"},
	{name: "sushi", typ: catalog.TypeFood, parentName: "japanese food"},
	{name: "board games", typ: catalog.TypePlay, parentName: "indoor activity",
		play: &prefs.PlayVector{Crowd: 0.2, Activeness: -0.3, Trend: 0.1, Planning: 0.4, Location: 1.0, Vibe: -0.4}},
	{name: "karaoke", typ: catalog.TypePlay, parentName: "indoor activity",
		play: &prefs.PlayVector{Crowd: 0.6, Activeness: 0.5, Trend: 0.3, Planning: -0.2, Location: 0.8, Vibe: 0.7}},
	{name: "hiking", typ: catalog.TypePlay, parentName: "outdoor activity",
		play: &prefs.PlayVector{Crowd: -0.5, Activeness: 0.9, Trend: -0.3, Planning: 0.6, Location: -0.8, Vibe: -0.2}},
}

var activities = []seedActivity{
	{
		name:         "A1 BBQ Gangnam",
		typ:          catalog.TypeFood,
		categoryName: "korean bbq",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{127.027, 37.497}},
		food: &prefs.FoodAttributes{
			CuisineTypes:   []string{"KOREAN"},
			Ingredients:    []string{"MEAT"},
			Tastes:         []string{"GREASY", "SALTY"},
			CookingMethods: []string{"GRILLED"},
		},
	},
	{
		name:         "Sushi Omakase Ichiban",
		typ:          catalog.TypeFood,
		categoryName: "sushi",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{127.031, 37.501}},
		food: &prefs.FoodAttributes{
			CuisineTypes:   []string{"JAPANESE"},
			Ingredients:    []string{"FISH"},
			Tastes:         []string{"SALTY"},
			CookingMethods: []string{"STEAMED"},
		},
	},
	{
		name:         "Riverside Bistro",
		typ:          catalog.TypeFood,
		categoryName: "restaurant",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{127.021, 37.505}},
		food: &prefs.FoodAttributes{
			CuisineTypes:   []string{"WESTERN"},
			Ingredients:    []string{"MEAT", "VEGETABLE"},
			Tastes:         []string{"SWEET", "SALTY"},
			CookingMethods: []string{"FRIED"},
		},
	},
	{
		name:         "Moonlight Cocktails",
		typ:          catalog.TypeFood,
		categoryName: "bar",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{127.029, 37.503}},
		food: &prefs.FoodAttributes{
			CuisineTypes: []string{"WESTERN"},
			Ingredients:  []string{"MILK", "EGG"},
			Tastes:       []string{"SWEET"},
		},
	},
	{
		name:         "Hero Board Game Cafe",
		typ:          catalog.TypePlay,
		categoryName: "board games",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{127.025, 37.499}},
		play:         &prefs.PlayVector{Crowd: 0.2, Activeness: -0.3, Trend: 0.1, Planning: 0.4, Location: 1.0, Vibe: -0.4},
	},
	{
		name:         "Sing Street Karaoke",
		typ:          catalog.TypePlay,
		categoryName: "karaoke",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{127.026, 37.498}},
		play:         &prefs.PlayVector{Crowd: 0.7, Activeness: 0.6, Trend: 0.4, Planning: -0.3, Location: 0.9, Vibe: 0.8},
	},
	{
		name:         "Namsan Trail",
		typ:          catalog.TypePlay,
		categoryName: "hiking",
		location:     &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{126.988, 37.551}},
		play:         &prefs.PlayVector{Crowd: -0.6, Activeness: 0.9, Trend: -0.4, Planning: 0.7, Location: -0.9, Vibe: -0.1},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		log.Fatal("seeding requires mongo.uri to be configured")
	}
	slogger := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("connect mongodb: %v", err)
	}

	categoryRepo, err := mongostore.NewCategoryRepository(ctx, db)
	if err != nil {
		log.Fatalf("init category repository: %v", err)
	}
	activityRepo, err := mongostore.NewActivityRepository(ctx, db)
	if err != nil {
		log.Fatalf("init activity repository: %v", err)
	}

	existing, err := categoryRepo.List(ctx)
	if err != nil {
		log.Fatalf("list categories: %v", err)
	}
	if len(existing) > 0 {
		slogger.Info("categories already present, skipping seed", "count", len(existing))
		return
	}

	// Parents first so children can reference their ids.
	idByName := make(map[string]string, len(categories))
	for _, sc := range categories {
		if sc.parentName != "" {
			continue
		}
		inserted, err := categoryRepo.Insert(ctx, catalog.Category{
			Name:           sc.name,
			Type:           sc.typ,
			PlayAttributes: sc.play,
		})
		if err != nil {
			log.Fatalf("insert category %q: %v", sc.name, err)
		}
		idByName[sc.name] = inserted.ID
	}
	for _, sc := range categories {
		if sc.parentName == "" {
			continue
		}
		inserted, err := categoryRepo.Insert(ctx, catalog.Category{
			Name:           sc.name,
			Type:           sc.typ,
			ParentID:       idByName[sc.parentName],
			PlayAttributes: sc.play,
		})
		if err != nil {
			log.Fatalf("insert category %q: %v", sc.name, err)
		}
		idByName[sc.name] = inserted.ID
	}
	slogger.Info("categories seeded", "count", len(categories))

	seeded := 0
	for _, sa := range activities {
		categoryID, ok := idByName[sa.categoryName]
		if !ok {
			slogger.Warn("unknown category, skipping activity", "activity", sa.name, "category", sa.categoryName)
			continue
		}
		activity := catalog.Activity{
			Name:           sa.name,
			Type:           sa.typ,
			CategoryID:     categoryID,
			Location:       sa.location,
			FoodAttributes: sa.food,
			PlayAttributes: sa.play,
		}
		if err := activity.Validate(); err != nil {
			log.Fatalf("seed activity %q invalid: %v", sa.name, err)
		}
		if _, err := activityRepo.Insert(ctx, activity); err != nil {
			log.Fatalf("insert activity %q: %v", sa.name, err)
		}
		seeded++
	}
	slogger.Info("activities seeded", "count", seeded)
}
