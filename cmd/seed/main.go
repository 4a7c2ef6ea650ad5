// Command seed inserts demo advertisers and ads for local development.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/config"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

const connectTimeout = 5 * time.Second

type seedAdvertiser struct {
	name  string
	email string
}

type seedAd struct {
	advertiser  string
	title       string
	description string
	imageURL    string
	targetURL   string
}

var advertisers = []seedAdvertiser{
	{"TechCorp", "ads@techcorp.com"},
	{"FashionBrand", "marketing@fashionbrand.com"},
	{"GameStudio", "promo@gamestudio.com"},
}

var ads = []seedAd{
	{"TechCorp", "Latest Smartphone", "Revolutionary new phone with AI features",
		"/static/images/phone.jpg", "https://techcorp.com/phone"},
	{"TechCorp", "Laptop Sale", "50% off premium laptops this week",
		"/static/images/laptop.jpg", "https://techcorp.com/laptops"},
	{"FashionBrand", "Summer Collection", "Trendy clothes for the season",
		"/static/images/fashion.jpg", "https://fashionbrand.com/summer"},
	{"FashionBrand", "Designer Shoes", "Luxury footwear collection",
		"/static/images/shoes.jpg", "https://fashionbrand.com/shoes"},
	{"GameStudio", "New RPG Game", "Epic adventure awaits in our latest game",
		"/static/images/game.jpg", "https://gamestudio.com/rpg"},
	{"GameStudio", "Mobile Puzzle", "Addictive puzzle game for mobile",
		"/static/images/puzzle.jpg", "https://gamestudio.com/puzzle"},
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return exitFailure
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ping database: %v\n", err)
		return exitFailure
	}

	if err := seed(context.Background(), db); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
		return exitFailure
	}

	fmt.Println("Sample data inserted successfully")
	return exitSuccess
}

// seed inserts the demo rows in one transaction. Reruns are no-ops thanks
// to the conflict clauses.
func seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make(map[string]int64, len(advertisers))
	for _, a := range advertisers {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO advertisers (name, email)
			VALUES ($1, $2)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			a.name, a.email,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert advertiser %s: %w", a.name, err)
		}
		ids[a.name] = id
	}

	for _, ad := range ads {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ads (advertiser_id, title, description, image_url, target_url, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (advertiser_id, title) DO NOTHING`,
			ids[ad.advertiser], ad.title, ad.description, ad.imageURL, ad.targetURL,
		)
		if err != nil {
			return fmt.Errorf("insert ad %s: %w", ad.title, err)
		}
	}

	return tx.Commit()
}
