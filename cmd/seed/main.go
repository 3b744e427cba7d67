// Seeder imports fixture data into MongoDB, or wipes it. Fixture files are
// JSON arrays named users.json, bootcamps.json, courses.json and reviews.json
// inside the data directory.
//
//	go run ./cmd/seed -import
//	go run ./cmd/seed -destroy
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/db"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

// Reference fields whose fixture values are hex strings to convert into
// ObjectIDs on import.
var idFields = map[string]bool{"_id": true, "user": true, "bootcamp": true}

var collections = []string{"users", "bootcamps", "courses", "reviews"}

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	doImport := flag.Bool("import", false, "import fixture data")
	doDestroy := flag.Bool("destroy", false, "delete all data")
	dataDir := flag.String("data", "./_data", "directory with fixture JSON files")
	flag.Parse()

	if *doImport == *doDestroy {
		log.Fatal().Msg("pass exactly one of -import or -destroy")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	ctx := context.Background()
	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to MongoDB")
	}
	defer client.Disconnect(ctx)

	if *doDestroy {
		for _, name := range collections {
			if _, err := database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
				log.Fatal().Err(err).Str("collection", name).Msg("destroying data")
			}
			log.Info().Str("collection", name).Msg("destroyed")
		}
		return
	}

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("creating indexes")
	}

	for _, name := range collections {
		docs, err := loadFixture(filepath.Join(*dataDir, name+".json"), name == "users")
		if err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("loading fixture")
		}
		if len(docs) == 0 {
			continue
		}
		if _, err := database.Collection(name).InsertMany(ctx, docs); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("importing data")
		}
		log.Info().Str("collection", name).Int("count", len(docs)).Msg("imported")
	}
}

// loadFixture reads one JSON array, converting reference hex strings to
// ObjectIDs and, for users, hashing plaintext fixture passwords.
func loadFixture(path string, hashPasswords bool) ([]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		for field := range idFields {
			if hex, ok := row[field].(string); ok {
				if id, err := primitive.ObjectIDFromHex(hex); err == nil {
					row[field] = id
				}
			}
		}
		if hashPasswords {
			if plain, ok := row["password"].(string); ok {
				hashed, err := utils.HashPassword(plain, 10)
				if err != nil {
					return nil, err
				}
				row["password"] = hashed
			}
		}
		if _, ok := row["createdAt"]; !ok {
			row["createdAt"] = time.Now()
		}
		docs = append(docs, row)
	}
	return docs, nil
}
