// Command seed loads the historical 2023-2025 metric dataset into an empty
// database. The source spreadsheets used German number formatting, so the
// values are kept verbatim here and parsed with ParseLocaleNumber. Safe to
// re-run: products and year data are upserted.
package main

import (
	"context"
	"os"

	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
	"github.com/sps-dashboard-api/internal/service"
	"github.com/sps-dashboard-api/pkg/logger"
)

type seedRow struct {
	dt, ut, nva, kd, ke, ker, otr, tsr, ksr string
}

var seedData = map[int]map[string]seedRow{
	2023: {
		"NL AD6-1250A": {dt: "1.519,13", ut: "1.359,65", nva: "159,48", kd: "0,895", ke: "0,673", ker: "0,723", otr: "2100,31", tsr: "290382,902", ksr: "0,723"},
		"NL AD6-2500A": {dt: "1.384,64", ut: "1.244,38", nva: "140,25", kd: "0,898", ke: "0,673", ker: "0,723", otr: "1914,37", tsr: "290382,902", ksr: "0,723"},
		"NL CL6-1250A": {dt: "1.328,46", ut: "1.199,44", nva: "129,02", kd: "0,902", ke: "0,673", ker: "0,723", otr: "1836,69", tsr: "290382,902", ksr: "0,723"},
		"NL GL6-1250A": {dt: "1.292,90", ut: "1.171,16", nva: "121,74", kd: "0,905", ke: "0,673", ker: "0,723", otr: "1787,53", tsr: "290382,902", ksr: "0,723"},
		"XE AD6-1250A": {dt: "1.316,73", ut: "632,02", nva: "684,71", kd: "0,479", ke: "0,673", ker: "0,723", otr: "1820,48", tsr: "290382,902", ksr: "0,723"},
		"XE TT6-1250A": {dt: "994,25", ut: "13,44", nva: "980,81", kd: "0,013", ke: "0,673", ker: "0,723", otr: "1374,62", tsr: "290382,902", ksr: "0,723"},
	},
	2024: {
		"XE AD6-1250A": {dt: "1308,4", ut: "937,45", nva: "370,95", kd: "0,716", ke: "0,733", ker: "0,783", otr: "1669,14", tsr: "#DIV/0!"},
		"XE AD6-2500A": {dt: "1338,4", ut: "967,45", nva: "370,95", kd: "0,722", ke: "0,733", ker: "0,783", otr: "1707,41", tsr: "#DIV/0!"},
		"NL GL6-1250A": {dt: "1.345,72", ut: "975,36", nva: "370,36", kd: "0,725", ke: "0,755", ker: "0,805", otr: "1671,72", tsr: "#DIV/0!"},
	},
	2025: {
		"XE AD6-1250A": {dt: "1.335,40", ut: "944,45", nva: "390,95", kd: "0,707", ke: "0,755", ker: "0,805", otr: "1658,9", tsr: "#DIV/0!"},
		"XE GL6-1250A": {dt: "1.307,62", ut: "935,13", nva: "372,49", kd: "0,715", ke: "0,755", ker: "0,805", otr: "1624,39", tsr: "#DIV/0!"},
	},
}

func main() {
	log := logger.New()
	log.Info().Msg("Seeding historical metric data...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	repos := repository.New(db)
	ctx := context.Background()

	seeded := 0
	for year, products := range seedData {
		for name, row := range products {
			var productID int64
			err := db.QueryRowContext(ctx, `
				INSERT INTO products (name)
				VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
				RETURNING id`,
				name,
			).Scan(&productID)
			if err != nil {
				log.Fatal().Err(err).Str("product", name).Msg("Failed to upsert product")
			}

			yd := &models.YearData{
				ProductID: productID,
				Year:      year,
				DT:        service.ParseLocaleNumber(row.dt),
				UT:        service.ParseLocaleNumber(row.ut),
				NVA:       service.ParseLocaleNumber(row.nva),
				KD:        service.ParseLocaleNumber(row.kd),
				KE:        service.ParseLocaleNumber(row.ke),
				KER:       service.ParseLocaleNumber(row.ker),
				KSR:       service.ParseLocaleNumber(row.ksr),
				OTR:       service.ParseLocaleNumber(row.otr),
			}
			// TSR is carried verbatim, "#DIV/0!" included.
			if row.tsr != "" {
				tsr := row.tsr
				yd.TSR = &tsr
			}

			if _, err := repos.YearData.Upsert(ctx, yd); err != nil {
				log.Fatal().Err(err).Str("product", name).Int("year", year).Msg("Failed to upsert year data")
			}
			seeded++
		}
	}

	log.Info().Int("records", seeded).Msg("Seeding finished")
}
