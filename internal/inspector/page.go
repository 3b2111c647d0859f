package inspector

// indexPage renders the message stream from /ws.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vdom inspector</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: grid; grid-template-columns: 1fr 1fr; height: 100vh; }
section { overflow: auto; padding: 16px; border-right: 1px solid #ddd; }
h2 { font-size: 14px; text-transform: uppercase; color: #666; margin: 0 0 12px; }
#status { font-size: 12px; color: #888; }
#error { color: #c00; white-space: pre-wrap; font-family: monospace; }
.pass { border-bottom: 1px solid #eee; padding: 8px 0; font-family: monospace; font-size: 12px; }
.pass.dropped { color: #b60; }
.op { color: #06c; }
pre { white-space: pre-wrap; word-wrap: break-word; background: #f6f6f6; padding: 12px; border-radius: 6px; }
</style>
</head>
<body>
<section>
  <h2>Document <span id="status">connecting</span></h2>
  <div id="error"></div>
  <div id="preview"></div>
  <pre id="source"></pre>
</section>
<section>
  <h2>Passes</h2>
  <div id="passes"></div>
</section>
<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function el(id) { return document.getElementById(id); }

    function showHTML(html) {
        el('preview').innerHTML = html || '';
        el('source').textContent = html || '';
    }

    function addPass(msg) {
        var div = document.createElement('div');
        div.className = 'pass' + (msg.dropped ? ' dropped' : '');
        var head = '#' + msg.pass + (msg.dropped ? ' dropped' : ' ' + (msg.durationMs || 0).toFixed(2) + 'ms');
        var actions = Object.keys(msg.actions || {}).map(function(k) { return k + '=' + msg.actions[k]; }).join(' ');
        div.textContent = head + '  ' + actions;
        (msg.mutations || []).forEach(function(m) {
            var line = document.createElement('div');
            line.className = 'op';
            line.textContent = m.op + ' <' + m.target + '> ' + (m.key ? m.key + '=' + (m.value || '') : (m.node || ''));
            div.appendChild(line);
        });
        el('passes').insertBefore(div, el('passes').firstChild);
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onopen = function() {
            el('status').textContent = 'live';
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'snapshot':
                    showHTML(msg.html);
                    break;
                case 'pass':
                    el('error').textContent = '';
                    if (!msg.dropped) {
                        showHTML(msg.html);
                    }
                    addPass(msg);
                    break;
                case 'error':
                    el('error').textContent = msg.error;
                    break;
            }
        };

        ws.onclose = function() {
            el('status').textContent = 'reconnecting';
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    connect();
})();
</script>
</body>
</html>
`
