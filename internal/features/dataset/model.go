package dataset

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportType names a backing row source. The set is fixed; anything
// else is rejected at validation time.
type ReportType string

const (
	ReportTypeConversations ReportType = "conversations"
	ReportTypeCustomers     ReportType = "customers"
	ReportTypeErrors        ReportType = "errors"
	ReportTypeSentiment     ReportType = "sentiment"
	ReportTypeUsage         ReportType = "usage"
	ReportTypeBilling       ReportType = "billing"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeConversations, ReportTypeCustomers, ReportTypeErrors,
		ReportTypeSentiment, ReportTypeUsage, ReportTypeBilling:
		return true
	}
	return false
}

// Row is the capability the generic aggregation engine needs from a
// record: read a field by name. Missing fields return nil.
type Row interface {
	Field(name string) interface{}
}

// MapRow adapts a plain field-keyed record to Row. Used for computed
// rows and in tests.
type MapRow map[string]interface{}

func (r MapRow) Field(name string) interface{} { return r[name] }

// Conversation is one assistant chat session with a customer.
type Conversation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID  primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	CustomerID      string             `bson:"customer_id" json:"customer_id"`
	Channel         string             `bson:"channel" json:"channel"` // web, voice
	Country         string             `bson:"country" json:"country"`
	Carrier         string             `bson:"carrier" json:"carrier"`
	Status          string             `bson:"status" json:"status"`
	MessageCount    int                `bson:"message_count" json:"message_count"`
	DurationSeconds float64            `bson:"duration_seconds" json:"duration_seconds"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

func (c Conversation) Field(name string) interface{} {
	switch name {
	case "id":
		return c.ID.Hex()
	case "customer_id":
		return c.CustomerID
	case "channel":
		return c.Channel
	case "country":
		return c.Country
	case "carrier":
		return c.Carrier
	case "status":
		return c.Status
	case "message_count":
		return c.MessageCount
	case "duration_seconds":
		return c.DurationSeconds
	case "created_at":
		return c.CreatedAt
	}
	return nil
}

// Customer is a small-business end customer using forwarding codes.
type Customer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Country        string             `bson:"country" json:"country"`
	Carrier        string             `bson:"carrier" json:"carrier"`
	Plan           string             `bson:"plan" json:"plan"`
	TotalCalls     int                `bson:"total_calls" json:"total_calls"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

func (c Customer) Field(name string) interface{} {
	switch name {
	case "id":
		return c.ID.Hex()
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "country":
		return c.Country
	case "carrier":
		return c.Carrier
	case "plan":
		return c.Plan
	case "total_calls":
		return c.TotalCalls
	case "created_at":
		return c.CreatedAt
	}
	return nil
}

// ErrorLog is a failed code generation or assistant call.
type ErrorLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Code           string             `bson:"code" json:"code"`
	Message        string             `bson:"message" json:"message"`
	Severity       string             `bson:"severity" json:"severity"`
	Source         string             `bson:"source" json:"source"` // codes, chat, speech
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

func (e ErrorLog) Field(name string) interface{} {
	switch name {
	case "id":
		return e.ID.Hex()
	case "code":
		return e.Code
	case "message":
		return e.Message
	case "severity":
		return e.Severity
	case "source":
		return e.Source
	case "created_at":
		return e.CreatedAt
	}
	return nil
}

// SentimentScore is the scored outcome of one conversation.
type SentimentScore struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	Score          float64            `bson:"score" json:"score"` // 0..10
	Label          string             `bson:"label" json:"label"` // negative, neutral, positive
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

func (s SentimentScore) Field(name string) interface{} {
	switch name {
	case "id":
		return s.ID.Hex()
	case "conversation_id":
		return s.ConversationID
	case "score":
		return s.Score
	case "label":
		return s.Label
	case "created_at":
		return s.CreatedAt
	}
	return nil
}

// UsageRecord is one day of forwarding activity for an organization.
type UsageRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Category       string             `bson:"category" json:"category"` // codes, chat, speech
	Carrier        string             `bson:"carrier" json:"carrier"`
	Calls          int                `bson:"calls" json:"calls"`
	Minutes        float64            `bson:"minutes" json:"minutes"`
	Forwards       int                `bson:"forwards" json:"forwards"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

func (u UsageRecord) Field(name string) interface{} {
	switch name {
	case "id":
		return u.ID.Hex()
	case "category":
		return u.Category
	case "carrier":
		return u.Carrier
	case "calls":
		return u.Calls
	case "minutes":
		return u.Minutes
	case "forwards":
		return u.Forwards
	case "created_at":
		return u.CreatedAt
	}
	return nil
}

// BillingRecord mirrors a row of the BaaS Postgres billing table.
type BillingRecord struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"` // draft, open, paid, void
	Period      string    `json:"period"` // yyyy-MM
	CreatedAt   time.Time `json:"created_at"`
}

func (b BillingRecord) Field(name string) interface{} {
	switch name {
	case "id":
		return b.ID
	case "invoice_id":
		return b.InvoiceID
	case "amount_cents":
		return b.AmountCents
	case "currency":
		return b.Currency
	case "status":
		return b.Status
	case "period":
		return b.Period
	case "created_at":
		return b.CreatedAt
	}
	return nil
}
