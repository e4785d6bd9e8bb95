package db_test

import (
	"testing"

	"github.com/persistorai/netgraph/internal/db"
)

func TestSchemaVersion_DialectsInStep(t *testing.T) {
	pg := db.SchemaVersion("postgres")
	lite := db.SchemaVersion("sqlite")

	if pg == 0 {
		t.Fatal("no postgres migrations embedded")
	}

	if pg != lite {
		t.Errorf("postgres has %d migrations, sqlite has %d", pg, lite)
	}
}
