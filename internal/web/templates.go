package web

import (
	"html/template"
)

// pageTemplate is the shared shell for every page. Exactly one view's
// markup is injected as Content; the others simply are not rendered.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} — {{.CompanyName}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body data-view="{{.View}}">
  <header class="top-bar">
    <a href="/dashboard" class="brand">{{.CompanyName}}</a>
    <nav class="top-nav">
      {{if .LoggedIn}}
      <a href="/upload" class="nav-upload">Analyze a document</a>
      <form method="post" action="/logout" class="nav-logout"><button type="submit">Sign out</button></form>
      {{else}}
      <a href="/login" class="nav-login">Sign in</a>
      {{end}}
    </nav>
  </header>
  <div class="notifications" id="notifications">
    {{range .Notifications}}
    <div class="notification notification-{{.Level}}">
      <span>{{.Message}}</span>
      <form method="post" action="/notifications/{{.ID}}/dismiss"><button type="submit" aria-label="Dismiss">&times;</button></form>
    </div>
    {{end}}
  </div>
  <main class="view view-{{.View}}">
    {{.Content}}
  </main>
  {{if .ShowFAB}}
  <a href="/upload" class="fab" aria-label="Analyze a new document">+</a>
  {{end}}
  <script src="/static/app.js"></script>
</body>
</html>`

// pageData feeds pageTemplate.
type pageData struct {
	Title         string
	CompanyName   string
	View          string
	LoggedIn      bool
	ShowFAB       bool
	Notifications []notification
	Content       template.HTML
}

type notification struct {
	ID      string
	Level   string
	Message string
}

var page = template.Must(template.New("page").Parse(pageTemplate))

// popupTemplate is the standalone Clause Oracle window. It talks to the
// main process over a WebSocket and shares the inline panel's transcript.
const popupTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Clause Oracle — {{.CompanyName}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body class="oracle-popup" data-analysis-id="{{.AnalysisID}}">
  <header class="popup-bar">Clause Oracle &mdash; {{.Filename}}</header>
  <div class="oracle-transcript" id="oracle-transcript"></div>
  <form id="oracle-form" class="oracle-form">
    <input type="text" id="oracle-question" placeholder="Ask about this document..." autocomplete="off">
    <button type="submit">Ask</button>
  </form>
  <script src="/static/popup.js"></script>
</body>
</html>`

type popupData struct {
	CompanyName string
	AnalysisID  int
	Filename    string
}

var popup = template.Must(template.New("popup").Parse(popupTemplate))

// styleCSS is the application stylesheet, served at /static/style.css.
const styleCSS = `:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #4263eb;
  --accent-hover: #3b5bdb;
  --risk-low: #2f9e44;
  --risk-medium: #e8590c;
  --risk-high: #e03131;
  --mark: #fff3bf;
}
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: var(--bg); color: var(--text); }
.top-bar { display: flex; justify-content: space-between; align-items: center; padding: 0.75rem 1.5rem; border-bottom: 1px solid var(--border); }
.brand { font-weight: 700; font-size: 1.2rem; color: var(--accent); text-decoration: none; }
.top-nav { display: flex; gap: 1rem; align-items: center; }
.view { max-width: 960px; margin: 0 auto; padding: 1.5rem; }
mark { background: var(--mark); }
.notifications { position: fixed; top: 1rem; right: 1rem; z-index: 100; display: flex; flex-direction: column; gap: 0.5rem; }
.notification { display: flex; gap: 0.75rem; align-items: center; padding: 0.6rem 1rem; border-radius: 6px; box-shadow: 0 2px 8px rgba(0,0,0,0.15); background: var(--bg); border-left: 4px solid var(--accent); }
.notification-success { border-left-color: var(--risk-low); }
.notification-warning { border-left-color: var(--risk-medium); }
.notification-error { border-left-color: var(--risk-high); }
.fab { position: fixed; bottom: 2rem; right: 2rem; width: 3.5rem; height: 3.5rem; border-radius: 50%; background: var(--accent); color: #fff; font-size: 2rem; display: flex; align-items: center; justify-content: center; text-decoration: none; box-shadow: 0 4px 12px rgba(0,0,0,0.25); }
.fab:hover { background: var(--accent-hover); }
.risk-badge { padding: 0.2rem 0.6rem; border-radius: 999px; color: #fff; font-size: 0.8rem; }
.risk-low { background: var(--risk-low); }
.risk-medium { background: var(--risk-medium); }
.risk-high { background: var(--risk-high); }
.risk-unknown { background: var(--text-muted); }
.dashboard-toolbar { display: flex; gap: 1rem; margin-bottom: 1rem; }
.dashboard-list { list-style: none; padding: 0; }
.dashboard-list li { display: flex; gap: 1rem; align-items: center; padding: 0.75rem; border-bottom: 1px solid var(--border); }
.dashboard-empty, .timeline-empty, .oracle-empty { color: var(--text-muted); padding: 2rem; text-align: center; }
.results-tabs { display: flex; gap: 0.5rem; border-bottom: 2px solid var(--border); margin-bottom: 1rem; }
.results-tabs a { padding: 0.5rem 1rem; text-decoration: none; color: var(--text); }
.results-tabs a.active { border-bottom: 2px solid var(--accent); color: var(--accent); margin-bottom: -2px; }
.action-item.clamped .action-text { display: -webkit-box; -webkit-line-clamp: 2; -webkit-box-orient: vertical; overflow: hidden; }
.overlay-box { position: absolute; background: rgba(255, 212, 59, 0.35); border: 1px solid rgba(255, 160, 0, 0.6); }
.page-canvas { position: relative; }
.oracle-panel { border: 1px solid var(--border); border-radius: 8px; padding: 1rem; margin-top: 1.5rem; }
.oracle-turn { margin: 0.5rem 0; padding: 0.6rem 0.9rem; border-radius: 8px; }
.oracle-turn-user { background: var(--bg-secondary); }
.oracle-turn-assistant { background: #edf2ff; }
.oracle-turn-pending { background: #edf2ff; color: var(--text-muted); font-style: italic; }
.oracle-citation { color: var(--text-muted); font-style: italic; margin-top: 0.4rem; }
.oracle-form { display: flex; gap: 0.5rem; margin-top: 0.75rem; }
.oracle-form input { flex: 1; padding: 0.5rem; border: 1px solid var(--border); border-radius: 6px; }
.timeline-list { list-style: none; padding: 0; }
.timeline-event { padding: 0.75rem; border-left: 3px solid var(--accent); margin: 0.5rem 0; background: var(--bg-secondary); }
.timeline-payment_due { border-left-color: var(--risk-medium); }
.timeline-action_required { border-left-color: var(--risk-high); }
.event-date { font-weight: 600; margin-right: 0.75rem; }
.upload-zone { border: 2px dashed var(--border); border-radius: 12px; padding: 3rem; text-align: center; }
.error-view { text-align: center; padding: 3rem; }
button { cursor: pointer; }
.oracle-popup { display: flex; flex-direction: column; height: 100vh; }
.oracle-popup .oracle-transcript { flex: 1; overflow-y: auto; padding: 1rem; }
.popup-bar { padding: 0.6rem 1rem; background: var(--accent); color: #fff; font-weight: 600; }
`

// appJS wires the light client-side behaviors: tab fetches, action
// clamp toggles, lazy explain and risk popups, and the oracle panel.
const appJS = `(function () {
  function post(url, body) {
    return fetch(url, { method: 'POST', body: body });
  }

  function analysisBase() {
    var m = location.pathname.match(/^\/analyses\/(\d+)/);
    return m ? '/analyses/' + m[1] : null;
  }

  function showToolResult(anchor, html) {
    var old = anchor.parentElement.querySelector('.tool-result, .tool-error');
    if (old) old.remove();
    anchor.insertAdjacentHTML('afterend', html);
  }

  document.addEventListener('click', function (e) {
    var btn = e.target.closest('.expand-btn');
    if (btn) {
      var item = btn.closest('.action-item');
      item.classList.toggle('clamped');
      item.classList.toggle('expanded');
      return;
    }
    var explain = e.target.closest('.eli5-btn');
    if (explain) {
      var base = analysisBase();
      var card = explain.closest('.action-item');
      fetch(base + '/actions/' + explain.dataset.index + '/explain', { method: 'POST' })
        .then(function (r) { return r.text(); })
        .then(function (html) {
          var slot = card.querySelector('.eli5');
          if (!slot) {
            card.insertAdjacentHTML('beforeend', '<div class="eli5"></div>');
            slot = card.querySelector('.eli5');
          }
          slot.innerHTML = html;
        });
      return;
    }
    var tool = e.target.closest('.rewrite-btn, .simulate-btn, .benchmark-btn');
    if (tool) {
      var root = tool.closest('li');
      var clauseKey = root.querySelector('.key-info-label');
      var clauseText = root.querySelector('.key-info-value, .action-text');
      var path = tool.classList.contains('rewrite-btn') ? '/rewrite'
        : tool.classList.contains('simulate-btn') ? '/simulate' : '/benchmark';
      var body = new URLSearchParams({
        clause_key: clauseKey ? clauseKey.textContent : '',
        clause_text: clauseText ? clauseText.textContent : ''
      });
      fetch(analysisBase() + path, { method: 'POST', body: body })
        .then(function (r) { return r.text(); })
        .then(function (html) { showToolResult(tool, html); });
      return;
    }
    var risk = e.target.closest('.row-risk');
    if (risk) {
      fetch('/analyses/' + risk.dataset.id + '/risk')
        .then(function (r) { return r.json(); })
        .then(function (d) { alert(d.risk_level + ': ' + (d.risk_reason || 'No justification recorded.')); });
      return;
    }
    var del = e.target.closest('.row-delete');
    if (del) {
      if (!confirm('Delete this document and its analysis?')) return;
      post('/analyses/' + del.dataset.id + '/delete', new URLSearchParams({ confirm: 'yes' }))
        .then(function () { location.reload(); });
      return;
    }
    var toggle = e.target.closest('.toggle-exact, .toggle-extracted');
    if (toggle) {
      var exact = toggle.classList.contains('toggle-exact');
      location.href = location.pathname + (exact ? '?view=exact' : '');
      return;
    }
    var detach = e.target.closest('[data-popup-url]');
    if (detach) {
      window.open(detach.dataset.popupUrl, 'clause-oracle', 'width=420,height=640');
    }
  });

  var search = document.getElementById('dashboard-search');
  var sort = document.getElementById('dashboard-sort');
  function refreshList() {
    var q = search ? encodeURIComponent(search.value) : '';
    var s = sort ? sort.value : '';
    fetch('/dashboard/items?q=' + q + '&sort=' + s)
      .then(function (r) { return r.text(); })
      .then(function (html) { document.getElementById('dashboard-list').innerHTML = html; });
  }
  if (search) search.addEventListener('input', refreshList);
  if (sort) sort.addEventListener('change', refreshList);

  var oracleForm = document.getElementById('oracle-inline-form');
  if (oracleForm) {
    oracleForm.addEventListener('submit', function (e) {
      e.preventDefault();
      var input = oracleForm.querySelector('input[name=question]');
      var panel = document.getElementById('oracle-transcript');
      var question = input.value;
      var body = new URLSearchParams({ question: question });
      input.value = '';

      // Show the question and a thinking placeholder right away; the
      // response replaces both with the authoritative transcript.
      var bubble = document.createElement('div');
      bubble.className = 'oracle-turn oracle-turn-user';
      bubble.textContent = question;
      panel.appendChild(bubble);
      var pending = document.createElement('div');
      pending.className = 'oracle-turn oracle-turn-pending';
      pending.textContent = 'Thinking…';
      panel.appendChild(pending);
      panel.scrollTop = panel.scrollHeight;

      post(oracleForm.action, body)
        .then(function (r) { return r.text(); })
        .then(function (html) {
          panel.innerHTML = html;
          panel.scrollTop = panel.scrollHeight;
        });
    });
  }
})();
`

// popupJS drives the detached oracle window over WebSocket.
const popupJS = `(function () {
  var analysisId = parseInt(document.body.dataset.analysisId, 10);
  var transcript = document.getElementById('oracle-transcript');
  var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var ws = new WebSocket(proto + location.host + '/chat/ws');

  ws.onopen = function () {
    ws.send(JSON.stringify({ type: 'sync', analysis_id: analysisId }));
  };
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === 'transcript') {
      transcript.innerHTML = msg.html;
      transcript.scrollTop = transcript.scrollHeight;
    } else if (msg.type === 'error') {
      var div = document.createElement('div');
      div.className = 'oracle-error';
      div.textContent = msg.error;
      transcript.appendChild(div);
    }
  };

  document.getElementById('oracle-form').addEventListener('submit', function (e) {
    e.preventDefault();
    var input = document.getElementById('oracle-question');
    ws.send(JSON.stringify({ type: 'ask', analysis_id: analysisId, question: input.value }));
    input.value = '';
  });
})();
`
