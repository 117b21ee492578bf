package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/campusbooks/marketplace-backend/internal/config"
	"github.com/campusbooks/marketplace-backend/internal/db"
	"github.com/joho/godotenv"
)

type seedUser struct {
	UID         string
	DisplayName string
	Email       string
	Role        string
}

type seedListing struct {
	Title       string
	Description string
	Price       float64
	Condition   string
	Category    string
	SellerUID   string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	canSeed, err := shouldSeed(ctx, sqlDB)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"reviews", "orders", "offers", "listings", "categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	users := buildSeedUsers()
	for _, u := range users {
		if err := upsertUser(ctx, tx, u); err != nil {
			return err
		}
	}

	categoryIDs := make(map[string]int64)
	for _, name := range seedCategories() {
		id, err := insertCategory(ctx, tx, name)
		if err != nil {
			return err
		}
		categoryIDs[name] = id
	}

	listings := buildSeedListings()
	for idx, l := range listings {
		catID, ok := categoryIDs[l.Category]
		if !ok {
			return fmt.Errorf("unknown category %q for %q", l.Category, l.Title)
		}
		imageURL := coverURL(idx + 1)
		if err := insertListing(ctx, tx, l, catID, imageURL); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("seeded %d users, %d categories, %d listings", len(users), len(categoryIDs), len(listings))
	return nil
}

func buildSeedUsers() []seedUser {
	return []seedUser{
		{UID: "seed-admin", DisplayName: "Campus Admin", Email: "admin@campusbooks.test", Role: "admin"},
		{UID: "seed-seller", DisplayName: "Sam Seller", Email: "sam@campusbooks.test", Role: "seller"},
		{UID: "seed-seller-2", DisplayName: "Riley Reseller", Email: "riley@campusbooks.test", Role: "seller"},
		{UID: "seed-buyer", DisplayName: "Blake Buyer", Email: "blake@campusbooks.test", Role: "buyer"},
	}
}

func seedCategories() []string {
	return []string{
		"Mathematics",
		"Computer Science",
		"Physics",
		"Chemistry",
		"Biology",
		"Economics",
		"Literature",
		"History",
	}
}

func buildSeedListings() []seedListing {
	type book struct {
		Title     string
		Price     float64
		Condition string
	}
	byCategory := map[string][]book{
		"Mathematics": {
			{Title: "Calculus: Early Transcendentals, 9th ed.", Price: 64.50, Condition: "good"},
			{Title: "Linear Algebra Done Right", Price: 38.00, Condition: "like_new"},
			{Title: "Introduction to Probability", Price: 42.75, Condition: "very_good"},
		},
		"Computer Science": {
			{Title: "Introduction to Algorithms (CLRS)", Price: 78.00, Condition: "good"},
			{Title: "Computer Networking: A Top-Down Approach", Price: 55.25, Condition: "fair"},
			{Title: "Operating System Concepts", Price: 61.00, Condition: "very_good"},
		},
		"Physics": {
			{Title: "University Physics with Modern Physics", Price: 72.00, Condition: "good"},
			{Title: "Introduction to Electrodynamics", Price: 49.50, Condition: "like_new"},
		},
		"Chemistry": {
			{Title: "Organic Chemistry, 8th ed.", Price: 68.00, Condition: "good"},
			{Title: "Physical Chemistry: A Molecular Approach", Price: 58.50, Condition: "fair"},
		},
		"Biology": {
			{Title: "Campbell Biology, 12th ed.", Price: 82.00, Condition: "very_good"},
			{Title: "Molecular Biology of the Cell", Price: 95.00, Condition: "good"},
		},
		"Economics": {
			{Title: "Principles of Economics (Mankiw)", Price: 54.00, Condition: "good"},
			{Title: "Intermediate Microeconomics", Price: 47.25, Condition: "like_new"},
		},
		"Literature": {
			{Title: "The Norton Anthology of English Literature", Price: 36.00, Condition: "fair"},
			{Title: "How to Read Literature Like a Professor", Price: 12.50, Condition: "good"},
		},
		"History": {
			{Title: "A People's History of the United States", Price: 18.00, Condition: "very_good"},
			{Title: "Guns, Germs, and Steel", Price: 14.75, Condition: "good"},
		},
	}

	sellers := []string{"seed-seller", "seed-seller-2"}
	var listings []seedListing
	i := 0
	for _, category := range seedCategories() {
		for _, b := range byCategory[category] {
			desc := fmt.Sprintf("%s. Used for one semester, no missing pages. Highlighting in early chapters only. Pickup on campus or shipping at cost.", b.Title)
			listings = append(listings, seedListing{
				Title:       b.Title,
				Description: desc,
				Price:       b.Price,
				Condition:   b.Condition,
				Category:    category,
				SellerUID:   sellers[i%len(sellers)],
			})
			i++
		}
	}
	return listings
}

func upsertUser(ctx context.Context, tx *sql.Tx, u seedUser) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (uid, display_name, email, role) VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE display_name = VALUES(display_name), email = VALUES(email), role = VALUES(role)`,
		u.UID, u.DisplayName, u.Email, u.Role,
	)
	if err != nil {
		return fmt.Errorf("upsert user %q: %w", u.UID, err)
	}
	return nil
}

func insertCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, fmt.Sprintf("Textbooks for %s courses", name),
	)
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category last insert id: %w", err)
	}
	return id, nil
}

func insertListing(ctx context.Context, tx *sql.Tx, l seedListing, categoryID int64, imageURL string) error {
	title := strings.TrimSpace(l.Title)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO listings (title, description, price, item_condition, is_sold, category_id, seller_uid, image_url, version)
		 VALUES (?, ?, ?, ?, false, ?, ?, ?, 0)`,
		title, strings.TrimSpace(l.Description), l.Price, l.Condition, categoryID, l.SellerUID, imageURL,
	)
	if err != nil {
		return fmt.Errorf("insert listing %q: %w", title, err)
	}
	return nil
}

func shouldSeed(ctx context.Context, db *sql.DB) (bool, error) {
	var cnt int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&cnt); err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}

func coverURL(idx int) string {
	return fmt.Sprintf("https://picsum.photos/seed/textbook-%d/600/800", idx)
}
