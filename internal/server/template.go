package server

// indexHTML is the interactive pricing form. Field names match the JSON API.
const indexHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Monte Carlo Option Pricer</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 2rem; max-width: 840px; }
      form { margin-top: 1rem; display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 0.75rem 1rem; }
      label { display: flex; flex-direction: column; font-weight: bold; }
      input, textarea { padding: 0.5rem; font-size: 1rem; }
      .full-width { grid-column: 1 / -1; }
      .result { margin-top: 1.5rem; padding: 1rem; border-radius: 8px; background: #f1f5f9; }
      .error { background: #ffe6e6; color: #7f1d1d; }
      button { padding: 0.75rem 1.25rem; font-size: 1rem; background: #2563eb; color: white; border: none; border-radius: 6px; cursor: pointer; }
      code { background: #e2e8f0; padding: 0.15rem 0.3rem; border-radius: 4px; }
    </style>
  </head>
  <body>
    <h1>Monte Carlo Option Pricer</h1>
    <p>Simulate geometric Brownian motion paths and evaluate any payoff expression over <code>path</code>.</p>
    <form method="post">
      <label>Spot price
        <input type="number" step="any" name="spot" value="{{.form.spot}}" required />
      </label>
      <label>Risk-free rate (continuous)
        <input type="number" step="any" name="rate" value="{{.form.rate}}" required />
      </label>
      <label>Time to maturity (years)
        <input type="number" step="any" name="time" value="{{.form.time}}" required />
      </label>
      <label>Volatility (annualized)
        <input type="number" step="any" name="volatility" value="{{.form.volatility}}" required />
      </label>
      <label>Dividend yield
        <input type="number" step="any" name="dividend_yield" value="{{.form.dividend_yield}}" />
      </label>
      <label>Number of paths
        <input type="number" step="1" min="1" name="paths" value="{{.form.paths}}" required />
      </label>
      <label>Steps per path
        <input type="number" step="1" min="1" name="steps" value="{{.form.steps}}" required />
      </label>
      <label>Random seed (optional)
        <input type="number" step="1" name="seed" value="{{.form.seed}}" />
      </label>
      <label class="full-width">Payoff expression (use <code>path</code>, <code>path[i]</code> and the numeric functions)
        <textarea name="payoff_expr" rows="3">{{.form.payoff_expr}}</textarea>
      </label>
      <div class="full-width"><button type="submit">Estimate price</button></div>
    </form>

    {{if .priced}}
      <div class="result">Estimated option price: <strong>{{printf "%.6f" .price}}</strong> &plusmn; {{printf "%.6f" .stderr}}</div>
    {{end}}

    {{if .error}}
      <div class="result error">Error: {{.error}}</div>
    {{end}}

    <div class="result">
      <h2>Example payoffs</h2>
      <ul>
        <li>European call: <code>max(path[-1] - 100, 0)</code></li>
        <li>European put: <code>max(100 - path[-1], 0)</code></li>
        <li>Asian call (average): <code>max(mean(path) - 100, 0)</code></li>
        <li>Lookback call (max): <code>max(max(path) - 100, 0)</code></li>
      </ul>
    </div>
  </body>
</html>
`
