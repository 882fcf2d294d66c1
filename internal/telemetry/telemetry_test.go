package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveScrapeKeepsOneSeriesPerRetailer(t *testing.T) {
	ObserveScrape("amazon", 2*time.Second)
	ObserveScrape("flipkart", time.Second)
	if got := testutil.CollectAndCount(scrapeDuration); got < 2 {
		t.Fatalf("expected a series per retailer label, got %d", got)
	}
}

func TestCountersAcceptLabels(t *testing.T) {
	RecordSearch("live")
	RecordSemanticCall("ok")
	RecordChatAction("search")
	RecordCompare()
	if got := testutil.CollectAndCount(searchesTotal); got < 1 {
		t.Fatalf("searches counter not collectable, got %d series", got)
	}
}
