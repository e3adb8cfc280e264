package mongo

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"placementcell/internal/common"
	"placementcell/internal/domain/application"
)

func TestEmailFilterEscapesAddress(t *testing.T) {
	filter := emailFilter("email", "a.b+c@nfsu.ac.in")
	inner, ok := filter["email"].(bson.M)
	if !ok {
		t.Fatalf("unexpected filter shape: %#v", filter)
	}
	pattern := inner["$regex"].(string)
	re := regexp.MustCompile("(?i)" + pattern)
	if !re.MatchString("A.B+C@NFSU.AC.IN") {
		t.Fatalf("pattern %q should match case-insensitively", pattern)
	}
	if re.MatchString("aXb+c@nfsu.ac.in") {
		t.Fatalf("pattern %q should treat dots literally", pattern)
	}
}

func TestApplicationDocumentUsesIDAsKey(t *testing.T) {
	app := application.Application{ID: common.UUID("app-1"), StudentID: "s1", DriveID: "d1", Status: application.StatusApplied}
	raw, err := bson.Marshal(app)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["_id"] != "app-1" || doc["drive_id"] != "d1" {
		t.Fatalf("unexpected document: %#v", doc)
	}
	if _, ok := doc["round_statuses"].(primitive.A); ok {
		t.Fatalf("nil rounds should not encode as an array")
	}
}
