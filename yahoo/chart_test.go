package yahoo

import (
	"encoding/json"
	"testing"
)

// chartPayload is a trimmed chart response for ERIC-B.ST.
const chartPayload = `{
  "chart": {
    "result": [
      {
        "meta": {
          "currency": "SEK",
          "symbol": "ERIC-B.ST",
          "shortName": "Ericsson, Telefonab. L M ser. B",
          "regularMarketPrice": 100.5
        }
      }
    ],
    "error": null
  }
}`

func TestChartJSONPicking(t *testing.T) {
	var jobj any
	if err := json.Unmarshal([]byte(chartPayload), &jobj); err != nil {
		t.Fatal(err)
	}

	price, err := jsonFloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		t.Fatal(err)
	}
	if price != 100.5 {
		t.Errorf("price = %v, want 100.5", price)
	}

	currency, err := jsonString(jobj, "$.chart.result[0].meta.currency")
	if err != nil {
		t.Fatal(err)
	}
	if currency != "SEK" {
		t.Errorf("currency = %q, want SEK", currency)
	}

	if _, err := jsonFloat(jobj, "$.chart.result[0].meta.currency"); err == nil {
		t.Error("string picked as a number did not fail")
	}
	if _, err := jsonString(jobj, "$.chart.result[0].meta.nosuchfield"); err == nil {
		t.Error("missing field did not fail")
	}
}
