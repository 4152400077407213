package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

const chartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=5d&interval=1d"

// chartClose fetches the latest close from the chart endpoint's meta block.
func (p *Provider) chartClose(ctx context.Context, symbol string) (price float64, currency, name string, err error) {
	var jobj any
	if err = p.jwget(ctx, fmt.Sprintf(chartURL, symbol), &jobj); err != nil {
		return 0, "", "", fmt.Errorf("chart %s: %w", symbol, err)
	}

	price, err = jsonFloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return 0, "", "", fmt.Errorf("chart %s: %w", symbol, err)
	}
	// currency is mandatory: a price without its currency is unusable
	currency, err = jsonString(jobj, "$.chart.result[0].meta.currency")
	if err != nil {
		return 0, "", "", fmt.Errorf("chart %s: %w", symbol, err)
	}
	// the name is informative only
	name, _ = jsonString(jobj, "$.chart.result[0].meta.shortName")
	return price, currency, name, nil
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func (p *Provider) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "apo/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

func jsonValue(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func jsonFloat(jobj any, path string) (float64, error) {
	jval, err := jsonValue(jobj, path)
	if err != nil {
		return 0, err
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("parsing %q: not a number: %v", path, jval)
	}
	return val, nil
}

func jsonString(jobj any, path string) (string, error) {
	jval, err := jsonValue(jobj, path)
	if err != nil {
		return "", err
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("parsing %q: not a string: %v", path, jval)
	}
	return val, nil
}
