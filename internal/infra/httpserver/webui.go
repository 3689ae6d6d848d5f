package httpserver

import "net/http"

// handleIndex serves a single-page demo client for manual testing.
func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Leaf Disease &amp; Pest Detection</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2em auto; color: #263238; }
  h1 { color: #1565c0; }
  .card { background: #f7f9fa; border-radius: 12px; padding: 1.5em; margin-top: 1em; }
  .badge { display: inline-block; background: #e3f2fd; color: #1976d2; border-radius: 8px; padding: 0.2em 0.6em; margin-right: 0.4em; }
  .pest { background: #fff3e0; border-left: 4px solid #ff9800; padding: 1em; margin-top: 1em; }
  .error { color: #c62828; }
  ul { margin: 0.3em 0 0.3em 1.2em; }
</style>
</head>
<body>
<h1>🌿 Leaf Disease &amp; Pest Detection</h1>
<p>Upload a leaf image to detect diseases and pests.</p>
<form id="form">
  <input type="file" id="file" accept="image/jpeg,image/png,image/webp" required>
  <button type="submit">Detect</button>
</form>
<div id="out"></div>
<script>
const form = document.getElementById('form');
const out = document.getElementById('out');

function list(title, items) {
  if (!items || !items.length) return '';
  return '<b>' + title + '</b><ul>' + items.map(i => '<li>' + i + '</li>').join('') + '</ul>';
}

form.addEventListener('submit', async (e) => {
  e.preventDefault();
  out.innerHTML = 'Analyzing…';
  const fd = new FormData();
  fd.append('file', document.getElementById('file').files[0]);
  try {
    const resp = await fetch('/v1/demo/diagnoses', { method: 'POST', body: fd });
    if (!resp.ok) {
      out.innerHTML = '<p class="error">' + await resp.text() + '</p>';
      return;
    }
    const d = await resp.json();
    const r = d.result;
    let html = '<div class="card">';
    if (r.disease_type === 'invalid_image') {
      html += '<h2>⚠️ Invalid Image</h2>' + list('Issue', r.symptoms) + list('What to do', r.treatment);
    } else if (r.disease_detected) {
      html += '<h2>🦠 ' + (r.disease_name || 'Unknown disease') + '</h2>' +
        '<span class="badge">Type: ' + r.disease_type + '</span>' +
        '<span class="badge">Severity: ' + r.severity + '</span>' +
        '<span class="badge">Confidence: ' + r.confidence + '%</span>' +
        list('Symptoms', r.symptoms) + list('Possible causes', r.possible_causes) +
        list('Treatment', r.treatment) + list('Common pests', r.common_pests);
    } else {
      html += '<h2>✅ Healthy leaf</h2><span class="badge">Confidence: ' + r.confidence + '%</span>';
    }
    if (r.pest_detected) {
      html += '<div class="pest"><h3>🐛 ' + r.pest_name + '</h3>' +
        '<span class="badge">Severity: ' + r.pest_severity + '</span>' +
        '<span class="badge">Confidence: ' + r.pest_confidence + '%</span>' +
        list('Signs', r.pest_symptoms) + list('Treatment', r.pest_treatment) + '</div>';
    }
    html += '<p><small>' + r.analysis_timestamp + '</small></p></div>';
    out.innerHTML = html;
  } catch (err) {
    out.innerHTML = '<p class="error">' + err + '</p>';
  }
});
</script>
</body>
</html>
`
