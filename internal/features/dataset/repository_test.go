package dataset

import (
	"strings"
	"testing"
	"time"

	common_models "forwarddesk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildMongoQueryOperators(t *testing.T) {
	orgID := primitive.NewObjectID()

	filters := []common_models.Filter{
		{Field: "country", Operator: common_models.OpEq, Value: "US"},
		{Field: "status", Operator: common_models.OpNeq, Value: "open"},
		{Field: "message_count", Operator: common_models.OpGte, Value: 5},
		{Field: "carrier", Operator: common_models.OpIn, Value: []interface{}{"att", "verizon"}},
		{Field: "duration_seconds", Operator: common_models.OpBetween, Value: []interface{}{30, 300}},
	}

	query, err := buildMongoQuery(orgID, filters, common_models.TimeRange{})
	if err != nil {
		t.Fatalf("buildMongoQuery() error = %v", err)
	}

	if query["organization_id"] != orgID {
		t.Error("query must scope to the organization")
	}
	if query["country"] != "US" {
		t.Errorf("eq filter = %v, want plain value", query["country"])
	}
	if got := query["status"].(bson.M)["$ne"]; got != "open" {
		t.Errorf("neq filter = %v, want $ne open", got)
	}
	if got := query["message_count"].(bson.M)["$gte"]; got != 5 {
		t.Errorf("gte filter = %v, want $gte 5", got)
	}
	in := query["carrier"].(bson.M)["$in"].([]interface{})
	if len(in) != 2 || in[0] != "att" {
		t.Errorf("in filter = %v, want the two carriers", in)
	}
	between := query["duration_seconds"].(bson.M)
	if between["$gte"] != 30 || between["$lte"] != 300 {
		t.Errorf("between filter = %v, want inclusive bounds", between)
	}
}

func TestBuildMongoQueryTimeRange(t *testing.T) {
	orgID := primitive.NewObjectID()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	query, err := buildMongoQuery(orgID, nil, common_models.TimeRange{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("buildMongoQuery() error = %v", err)
	}

	created := query["created_at"].(bson.M)
	if created["$gte"] != start || created["$lte"] != end {
		t.Errorf("time range clause = %v, want both bounds", created)
	}

	// Open-ended range sets only the bound it has
	query, err = buildMongoQuery(orgID, nil, common_models.TimeRange{Start: &start})
	if err != nil {
		t.Fatalf("buildMongoQuery() error = %v", err)
	}
	created = query["created_at"].(bson.M)
	if _, hasEnd := created["$lte"]; hasEnd {
		t.Error("open-ended range must not set an upper bound")
	}
}

func TestBuildMongoQueryRejectsInvalidFilter(t *testing.T) {
	_, err := buildMongoQuery(primitive.NewObjectID(), []common_models.Filter{
		{Field: "country", Operator: common_models.OpIn, Value: "US"},
	}, common_models.TimeRange{})
	if err == nil {
		t.Error("buildMongoQuery() accepted a scalar in filter")
	}
}

func TestBuildBillingQuery(t *testing.T) {
	orgID := primitive.NewObjectID()

	filters := []common_models.Filter{
		{Field: "status", Operator: common_models.OpEq, Value: "paid"},
		{Field: "amount_cents", Operator: common_models.OpBetween, Value: []interface{}{1000, 50000}},
	}

	query, args, err := buildBillingQuery(orgID, filters, common_models.TimeRange{})
	if err != nil {
		t.Fatalf("buildBillingQuery() error = %v", err)
	}

	for _, clause := range []string{
		"organization_id = $1",
		"status = $2",
		"amount_cents BETWEEN $3 AND $4",
		"ORDER BY created_at",
	} {
		if !strings.Contains(query, clause) {
			t.Errorf("query %q missing clause %q", query, clause)
		}
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4 placeholders", args)
	}
	if args[0] != orgID.Hex() || args[1] != "paid" {
		t.Errorf("args = %v, want org hex then paid", args)
	}
}

func TestBuildBillingQueryRejectsUnknownColumn(t *testing.T) {
	_, _, err := buildBillingQuery(primitive.NewObjectID(), []common_models.Filter{
		{Field: "password", Operator: common_models.OpEq, Value: "x"},
	}, common_models.TimeRange{})
	if err == nil {
		t.Error("buildBillingQuery() accepted a column outside the whitelist")
	}
}

func TestColumnsLookup(t *testing.T) {
	for _, reportType := range []ReportType{
		ReportTypeConversations, ReportTypeCustomers, ReportTypeErrors,
		ReportTypeSentiment, ReportTypeUsage, ReportTypeBilling,
	} {
		cols := Columns(reportType)
		if len(cols) == 0 {
			t.Errorf("Columns(%s) is empty", reportType)
		}
	}

	col, ok := ColumnFor(ReportTypeConversations, "country")
	if !ok || col.Header == "" || col.Type != ColumnTypeText {
		t.Errorf("ColumnFor(conversations, country) = %+v, %v", col, ok)
	}
	if _, ok := ColumnFor(ReportTypeConversations, "no_such_field"); ok {
		t.Error("ColumnFor() found a column that does not exist")
	}
}
