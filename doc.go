// Package optimizer implements the enrichment and recommendation pipeline
// behind the `apo` command-line tool. It turns a list of raw stock/ETF
// positions into a currency-normalized situation report and submits that
// report to a generative-AI model for a structured buy/sell/hold
// recommendation.
//
// The core functionalities include:
//   - Market Data Fetching: resolving last-close prices and trading
//     currencies for exchange-suffixed tickers, and FX rates between
//     currency pairs with an inverse-pair fallback.
//   - Rate Caching: memoizing FX rates for the lifetime of a session so a
//     pair is fetched at most once, even under concurrent enrichment.
//   - Portfolio Enrichment: converting every position into the chosen base
//     currency with exact decimal arithmetic, isolating per-position
//     failures from the rest of the batch.
//   - Vision Extraction: parsing a portfolio screenshot into validated
//     positions through a multimodal model, treating the model output as an
//     untrusted external format.
//   - Recommendation: querying a text model under a strict output-format
//     contract, falling back across an ordered list of model identifiers
//     when a model is rate-limited or unavailable.
//
// All state is session-only: nothing is persisted, and a session restart
// invalidates any in-flight pipeline result.
package optimizer
