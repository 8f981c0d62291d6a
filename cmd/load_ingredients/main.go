// Command load_ingredients fills the ingredient and tag catalog from JSON
// files, skipping entries that already exist.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "ingredients JSON file")
	tagsPath := flag.String("tags", "", "optional tags JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		log.Fatal("migrations failed", "error", err)
	}
	catalog := service.NewCatalogService(store.New(db, log), log)

	var ingredients []types.Ingredient
	if err := readJSON(*ingredientsPath, &ingredients); err != nil {
		log.Fatal("failed to read ingredients", "path", *ingredientsPath, "error", err)
	}
	if _, err := catalog.LoadIngredients(ctx, ingredients); err != nil {
		log.Fatal("failed to load ingredients", "error", err)
	}

	if *tagsPath != "" {
		var tags []types.Tag
		if err := readJSON(*tagsPath, &tags); err != nil {
			log.Fatal("failed to read tags", "path", *tagsPath, "error", err)
		}
		if _, err := catalog.LoadTags(ctx, tags); err != nil {
			log.Fatal("failed to load tags", "error", err)
		}
	}
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decode(f, v)
}

func decode(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
