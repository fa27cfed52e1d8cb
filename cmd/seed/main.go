package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"forwarddesk/internal/common/models"
	"forwarddesk/internal/config"
	"forwarddesk/internal/database"
	"forwarddesk/internal/features/dataset"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const seedDays = 60 // two 30d trend windows

var (
	channels   = []string{"web", "voice"}
	countries  = []string{"US", "TR", "DE", "GB", "BR"}
	carriers   = []string{"att", "verizon", "tmobile", "vodafone", "turkcell"}
	plans      = []string{"starter", "business", "enterprise"}
	categories = []string{"codes", "chat", "speech"}
	severities = []string{"warning", "error", "critical"}
	labels     = []string{"negative", "neutral", "positive"}
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	mongoDB := &database.MongodbDB{DB: client.Database(cfg.DBName)}

	fmt.Println("Seeding demo reporting data...")

	orgID := seedOrganization(ctx, mongoDB)
	customerIDs := seedCustomers(ctx, mongoDB, orgID)
	seedConversations(ctx, mongoDB, orgID, customerIDs)
	seedUsage(ctx, mongoDB, orgID)
	seedErrors(ctx, mongoDB, orgID)
	seedBilling(cfg, orgID)

	fmt.Printf("Done. Organization id: %s\n", orgID.Hex())
}

func seedOrganization(ctx context.Context, db *database.MongodbDB) primitive.ObjectID {
	col := db.DB.Collection("organizations")

	var existing models.Organization
	if err := col.FindOne(ctx, bson.M{"slug": "acme-forwarding"}).Decode(&existing); err == nil {
		fmt.Println("Organization already exists")
		return existing.ID
	}

	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      "Acme Forwarding",
		Slug:      "acme-forwarding",
		Plan:      "business",
		OwnerID:   primitive.NewObjectID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := col.InsertOne(ctx, org); err != nil {
		log.Fatalf("Failed to create organization: %v", err)
	}
	fmt.Println("Created organization Acme Forwarding")
	return org.ID
}

func seedCustomers(ctx context.Context, db *database.MongodbDB, orgID primitive.ObjectID) []string {
	col := db.DB.Collection("customers")

	var ids []string
	for i := 0; i < 40; i++ {
		customer := dataset.Customer{
			ID:             primitive.NewObjectID(),
			OrganizationID: orgID,
			Name:           fmt.Sprintf("Customer %02d", i+1),
			Email:          fmt.Sprintf("customer%02d@example.com", i+1),
			Country:        countries[rand.Intn(len(countries))],
			Carrier:        carriers[rand.Intn(len(carriers))],
			Plan:           plans[rand.Intn(len(plans))],
			TotalCalls:     rand.Intn(500),
			CreatedAt:      daysAgo(rand.Intn(seedDays)),
		}
		if _, err := col.InsertOne(ctx, customer); err != nil {
			log.Printf("Failed to create customer: %v", err)
			continue
		}
		ids = append(ids, customer.ID.Hex())
	}
	fmt.Printf("Created %d customers\n", len(ids))
	return ids
}

func seedConversations(ctx context.Context, db *database.MongodbDB, orgID primitive.ObjectID, customerIDs []string) {
	convCol := db.DB.Collection("conversations")
	sentCol := db.DB.Collection("sentiment_scores")

	count := 0
	for day := 0; day < seedDays; day++ {
		// Busier weekdays plus an occasional spike for the anomaly view
		perDay := 3 + rand.Intn(8)
		if rand.Intn(20) == 0 {
			perDay += 40
		}
		for i := 0; i < perDay; i++ {
			conv := dataset.Conversation{
				ID:              primitive.NewObjectID(),
				OrganizationID:  orgID,
				CustomerID:      customerIDs[rand.Intn(len(customerIDs))],
				Channel:         channels[rand.Intn(len(channels))],
				Country:         countries[rand.Intn(len(countries))],
				Carrier:         carriers[rand.Intn(len(carriers))],
				Status:          "closed",
				MessageCount:    2 + rand.Intn(30),
				DurationSeconds: 30 + rand.Float64()*900,
				CreatedAt:       daysAgo(day).Add(time.Duration(rand.Intn(86400)) * time.Second),
			}
			if _, err := convCol.InsertOne(ctx, conv); err != nil {
				log.Printf("Failed to create conversation: %v", err)
				continue
			}
			count++

			score := dataset.SentimentScore{
				ID:             primitive.NewObjectID(),
				OrganizationID: orgID,
				ConversationID: conv.ID.Hex(),
				Score:          rand.Float64() * 10,
				CreatedAt:      conv.CreatedAt,
			}
			switch {
			case score.Score < 4:
				score.Label = "negative"
			case score.Score < 7:
				score.Label = "neutral"
			default:
				score.Label = "positive"
			}
			if _, err := sentCol.InsertOne(ctx, score); err != nil {
				log.Printf("Failed to create sentiment score: %v", err)
			}
		}
	}
	fmt.Printf("Created %d conversations with sentiment scores\n", count)
}

func seedUsage(ctx context.Context, db *database.MongodbDB, orgID primitive.ObjectID) {
	col := db.DB.Collection("usage_records")

	count := 0
	for day := 0; day < seedDays; day++ {
		for _, category := range categories {
			record := dataset.UsageRecord{
				ID:             primitive.NewObjectID(),
				OrganizationID: orgID,
				Category:       category,
				Carrier:        carriers[rand.Intn(len(carriers))],
				Calls:          rand.Intn(200),
				Minutes:        rand.Float64() * 600,
				Forwards:       rand.Intn(80),
				CreatedAt:      daysAgo(day),
			}
			if _, err := col.InsertOne(ctx, record); err != nil {
				log.Printf("Failed to create usage record: %v", err)
				continue
			}
			count++
		}
	}
	fmt.Printf("Created %d usage records\n", count)
}

func seedErrors(ctx context.Context, db *database.MongodbDB, orgID primitive.ObjectID) {
	col := db.DB.Collection("error_logs")

	count := 0
	for day := 0; day < seedDays; day++ {
		for i := 0; i < rand.Intn(4); i++ {
			entry := dataset.ErrorLog{
				ID:             primitive.NewObjectID(),
				OrganizationID: orgID,
				Code:           fmt.Sprintf("E%03d", 100+rand.Intn(20)),
				Message:        "code generation failed for carrier",
				Severity:       severities[rand.Intn(len(severities))],
				Source:         categories[rand.Intn(len(categories))],
				CreatedAt:      daysAgo(day).Add(time.Duration(rand.Intn(86400)) * time.Second),
			}
			if _, err := col.InsertOne(ctx, entry); err != nil {
				log.Printf("Failed to create error log: %v", err)
				continue
			}
			count++
		}
	}
	fmt.Printf("Created %d error logs\n", count)
}

// seedBilling fills the Postgres billing table the billing report reads
// from. Skipped when no DSN is configured.
func seedBilling(cfg *config.Config, orgID primitive.ObjectID) {
	if cfg.PostgresDSN == "" {
		fmt.Println("No Postgres DSN configured, skipping billing rows")
		return
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Printf("Failed to open Postgres: %v", err)
		return
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS billing_records (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		invoice_id TEXT NOT NULL,
		amount_cents BIGINT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		period TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		log.Printf("Failed to create billing table: %v", err)
		return
	}

	statuses := []string{"open", "paid", "paid", "paid", "void"}
	count := 0
	for month := 0; month < 6; month++ {
		created := time.Now().AddDate(0, -month, 0)
		for i := 0; i < 20; i++ {
			_, err := db.Exec(
				`INSERT INTO billing_records (id, organization_id, invoice_id, amount_cents, currency, status, period, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
				fmt.Sprintf("bill_%d_%d", month, i),
				orgID.Hex(),
				fmt.Sprintf("inv_%04d", month*100+i),
				int64(990+rand.Intn(49000)),
				"usd",
				statuses[rand.Intn(len(statuses))],
				created.Format("2006-01"),
				created,
			)
			if err != nil {
				log.Printf("Failed to insert billing row: %v", err)
				continue
			}
			count++
		}
	}
	fmt.Printf("Created %d billing rows\n", count)
}

func daysAgo(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n).Truncate(24 * time.Hour)
}
