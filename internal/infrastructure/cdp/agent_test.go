package cdp

import (
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agentHarness = `
var emitted = [];
var handlers = {};
var window = {
  addEventListener: function (type, fn) { handlers['window:' + type] = fn; },
  __cinefillEmit: function (payload) { emitted.push(JSON.parse(payload)); }
};
var document = {
  visibilityState: 'visible',
  addEventListener: function (type, fn) { handlers['document:' + type] = fn; },
  querySelectorAll: function () { return []; },
  getElementById: function () { return null; }
};
function key(k, alt, shift, repeat) {
  return {
    key: k, altKey: alt, shiftKey: shift, ctrlKey: false, metaKey: false, repeat: repeat,
    preventDefault: function () {}, stopPropagation: function () {}
  };
}
var CSS = { escape: function (s) { return s; } };
var nodes = [];
function connect(e, on) {
  e.isConnected = on;
  for (var i = 0; i < e.children.length; i++) {
    connect(e.children[i], on);
  }
}
function el(tag, parent) {
  var e = {
    tagName: tag.toUpperCase(), id: '', textContent: '', attrs: {}, children: [],
    parentElement: null, isConnected: false, styles: {}, priorities: {},
    getAttribute: function (n) { return this.attrs[n] || null; },
    setAttribute: function (n, v) { this.attrs[n] = v; },
    getBoundingClientRect: function () { return { x: 0, y: 140, width: 2560, height: 1080 }; },
    appendChild: function (c) {
      c.parentElement = this;
      this.children.push(c);
      connect(c, this.isConnected);
      return c;
    },
    remove: function () {
      var p = this.parentElement;
      if (p) {
        p.children.splice(p.children.indexOf(this), 1);
      }
      this.parentElement = null;
      connect(this, false);
    }
  };
  e.style = {
    setProperty: function (n, v, prio) { e.styles[n] = v; e.priorities[n] = prio || ''; },
    removeProperty: function (n) { delete e.styles[n]; delete e.priorities[n]; }
  };
  nodes.push(e);
  if (parent) {
    parent.appendChild(e);
  }
  return e;
}
// installDOM gives the fake document a tree. querySelector also matches
// disconnected nodes so the agent's own isConnected check is exercised.
function installDOM() {
  var html = el('html');
  connect(html, true);
  document.documentElement = html;
  document.head = el('head', html);
  document.body = el('body', html);
  document.createElement = function (tag) { return el(tag); };
  document.getElementById = function (id) {
    for (var i = 0; i < nodes.length; i++) {
      if (nodes[i].id === id && nodes[i].isConnected) {
        return nodes[i];
      }
    }
    return null;
  };
  document.querySelector = function (sel) {
    var m = /^\[([\w-]+)="(.*)"\]$/.exec(sel);
    for (var i = 0; m && i < nodes.length; i++) {
      if (nodes[i].attrs[m[1]] === m[2]) {
        return nodes[i];
      }
    }
    return null;
  };
  document.querySelectorAll = function (tag) {
    return nodes.filter(function (n) { return n.isConnected && n.tagName === tag.toUpperCase(); });
  };
}
function styleNodes(id) {
  return nodes.filter(function (n) { return n.isConnected && n.id === id; });
}
function video() {
  return {
    tagName: 'VIDEO', attrs: {},
    getAttribute: function (n) { return this.attrs[n] || null; },
    setAttribute: function (n, v) { this.attrs[n] = v; }
  };
}
`

func newAgentVM(t *testing.T, shortcut Chord) *sobek.Runtime {
	t.Helper()

	prog, err := sobek.Compile("agent.js", AgentScript(shortcut), false)
	require.NoError(t, err)

	vm := sobek.New()
	_, err = vm.RunString(agentHarness)
	require.NoError(t, err)
	_, err = vm.RunProgram(prog)
	require.NoError(t, err)
	return vm
}

func eval(t *testing.T, vm *sobek.Runtime, src string) sobek.Value {
	t.Helper()
	v, err := vm.RunString(src)
	require.NoError(t, err)
	return v
}

func TestAgentScript_ShortcutPlaceholderReplaced(t *testing.T) {
	chord, err := ParseChord(DefaultShortcut)
	require.NoError(t, err)

	script := AgentScript(chord)
	assert.NotContains(t, script, shortcutPlaceholder)
	assert.Contains(t, script, `{"key":"u","alt":true,"shift":true,"ctrl":false,"meta":false}`)

	assert.Contains(t, AgentScript(Chord{}), "var SHORTCUT = null;")
}

func TestAgentScript_InstallsHelpers(t *testing.T) {
	vm := newAgentVM(t, Chord{})

	assert.True(t, eval(t, vm, `window.__cinefill.videos().ok`).ToBoolean())
	assert.Equal(t, int64(0), eval(t, vm, `window.__cinefill.videos().value.length`).ToInteger())
	assert.True(t, eval(t, vm, `window.__cinefill.removeSheet('cinefill-styles').ok`).ToBoolean())
}

func TestAgentScript_InstallsOnce(t *testing.T) {
	vm := newAgentVM(t, Chord{})
	before := eval(t, vm, `Object.keys(handlers).length`).ToInteger()

	prog, err := sobek.Compile("agent.js", AgentScript(Chord{}), false)
	require.NoError(t, err)
	_, err = vm.RunProgram(prog)
	require.NoError(t, err)

	assert.Equal(t, before, eval(t, vm, `Object.keys(handlers).length`).ToInteger())
}

func TestAgentScript_ShortcutEmits(t *testing.T) {
	chord, err := ParseChord(DefaultShortcut)
	require.NoError(t, err)
	vm := newAgentVM(t, chord)

	eval(t, vm, `handlers['window:keydown'](key('U', true, true, false))`)
	eval(t, vm, `handlers['window:keydown'](key('U', true, true, true))`)
	eval(t, vm, `handlers['window:keydown'](key('u', false, true, false))`)

	assert.Equal(t, int64(1), eval(t, vm, `emitted.length`).ToInteger())
	assert.Equal(t, signalShortcut, eval(t, vm, `emitted[0].kind`).String())
}

func TestAgentScript_MediaEventsCarryVideoRef(t *testing.T) {
	vm := newAgentVM(t, Chord{})

	eval(t, vm, `var v = video(); handlers['document:loadedmetadata']({target: v})`)
	eval(t, vm, `handlers['document:play']({target: v})`)
	eval(t, vm, `handlers['document:play']({target: {tagName: 'AUDIO'}})`)
	eval(t, vm, `handlers['document:fullscreenchange']({})`)

	require.Equal(t, int64(3), eval(t, vm, `emitted.length`).ToInteger())
	assert.Equal(t, "loadedmetadata", eval(t, vm, `emitted[0].kind`).String())
	assert.Equal(t, "play", eval(t, vm, `emitted[1].kind`).String())
	assert.Equal(t, "fullscreenchange", eval(t, vm, `emitted[2].kind`).String())

	ref := eval(t, vm, `emitted[0].target`).String()
	assert.NotEmpty(t, ref)
	assert.Equal(t, ref, eval(t, vm, `emitted[1].target`).String(), "refs are stable per element")
	assert.Equal(t, ref, eval(t, vm, `v.attrs['data-cinefill-ref']`).String())
}

func TestAgentScript_ObserveWithoutDocumentTarget(t *testing.T) {
	vm := newAgentVM(t, Chord{})

	res := eval(t, vm, `window.__cinefill.observe()`).Export()
	assert.Equal(t, map[string]any{"ok": false, "error": agentErrNoTarget}, res)
}

func newDOMAgentVM(t *testing.T) *sobek.Runtime {
	t.Helper()
	vm := newAgentVM(t, Chord{})
	eval(t, vm, `
installDOM();
var player = el('div', document.body);
var frame = el('div', player);
var v = el('video', frame);
var ref = window.__cinefill.videos().value[0].ref;
`)
	return vm
}

func TestAgentScript_VideosReportRefAndRect(t *testing.T) {
	vm := newDOMAgentVM(t)

	res := eval(t, vm, `window.__cinefill.videos().value`).Export()
	list, ok := res.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	got := list[0].(map[string]any)
	assert.Equal(t, eval(t, vm, `v.attrs['data-cinefill-ref']`).String(), got["ref"])
	assert.Equal(t, map[string]any{"x": int64(0), "y": int64(140), "width": int64(2560), "height": int64(1080)}, got["rect"])
}

func TestAgentScript_SetAndRemoveStyle(t *testing.T) {
	vm := newDOMAgentVM(t)

	assert.True(t, eval(t, vm, `window.__cinefill.setStyle(ref, 'transform', 'scale(1.33)').ok`).ToBoolean())
	assert.True(t, eval(t, vm, `window.__cinefill.setStyle(ref, 'transform-origin', 'center center').ok`).ToBoolean())
	assert.Equal(t, "scale(1.33)", eval(t, vm, `v.styles['transform']`).String())
	assert.Equal(t, "important", eval(t, vm, `v.priorities['transform']`).String())

	assert.True(t, eval(t, vm, `window.__cinefill.removeStyle(ref, ['transform', 'transform-origin', 'overflow']).ok`).ToBoolean())
	assert.Equal(t, int64(0), eval(t, vm, `Object.keys(v.styles).length`).ToInteger())
}

func TestAgentScript_AncestorsNearestFirst(t *testing.T) {
	vm := newDOMAgentVM(t)

	res := eval(t, vm, `window.__cinefill.ancestors(ref, 2)`).Export().(map[string]any)
	require.Equal(t, true, res["ok"])
	refs := res["value"].([]any)
	require.Len(t, refs, 2)
	assert.Equal(t, eval(t, vm, `frame.attrs['data-cinefill-ref']`).String(), refs[0])
	assert.Equal(t, eval(t, vm, `player.attrs['data-cinefill-ref']`).String(), refs[1])

	// frame, player, body, html: the walk stops at the root.
	assert.Equal(t, int64(4), eval(t, vm, `window.__cinefill.ancestors(ref, 10).value.length`).ToInteger())
	assert.Equal(t, refs[0], eval(t, vm, `window.__cinefill.ancestors(ref, 10).value[0]`).String(), "refs are stable")
}

func TestAgentScript_InjectSheetReplacesContent(t *testing.T) {
	vm := newDOMAgentVM(t)

	assert.True(t, eval(t, vm, `window.__cinefill.injectSheet('cinefill-styles', 'video { color: red }').ok`).ToBoolean())
	assert.True(t, eval(t, vm, `window.__cinefill.injectSheet('cinefill-styles', 'video { color: blue }').ok`).ToBoolean())

	assert.Equal(t, int64(1), eval(t, vm, `styleNodes('cinefill-styles').length`).ToInteger())
	assert.Equal(t, "video { color: blue }", eval(t, vm, `styleNodes('cinefill-styles')[0].textContent`).String())
	assert.Equal(t, "HEAD", eval(t, vm, `styleNodes('cinefill-styles')[0].parentElement.tagName`).String())

	assert.True(t, eval(t, vm, `window.__cinefill.removeSheet('cinefill-styles').ok`).ToBoolean())
	assert.Equal(t, int64(0), eval(t, vm, `styleNodes('cinefill-styles').length`).ToInteger())
}

func TestAgentScript_InjectSheetWithoutHead(t *testing.T) {
	vm := newDOMAgentVM(t)
	eval(t, vm, `document.head = null`)

	assert.True(t, eval(t, vm, `window.__cinefill.injectSheet('cinefill-styles', 'x').ok`).ToBoolean())
	assert.Equal(t, "HTML", eval(t, vm, `styleNodes('cinefill-styles')[0].parentElement.tagName`).String())

	eval(t, vm, `document.documentElement = null; styleNodes('cinefill-styles')[0].remove()`)
	res := eval(t, vm, `window.__cinefill.injectSheet('cinefill-styles', 'x')`).Export()
	assert.Equal(t, map[string]any{"ok": false, "error": agentErrNoTarget}, res)
}

func TestAgentScript_DetachedElement(t *testing.T) {
	vm := newDOMAgentVM(t)
	assert.True(t, eval(t, vm, `window.__cinefill.attached(ref).value`).ToBoolean())

	eval(t, vm, `frame.remove()`)

	assert.False(t, eval(t, vm, `window.__cinefill.attached(ref).value`).ToBoolean())
	assert.False(t, eval(t, vm, `window.__cinefill.attached('').value`).ToBoolean())
	detached := map[string]any{"ok": false, "error": agentErrDetached}
	assert.Equal(t, detached, eval(t, vm, `window.__cinefill.setStyle(ref, 'transform', 'none')`).Export())
	assert.Equal(t, detached, eval(t, vm, `window.__cinefill.removeStyle(ref, ['transform'])`).Export())
	assert.Equal(t, detached, eval(t, vm, `window.__cinefill.ancestors(ref, 3)`).Export())
	assert.Equal(t, int64(0), eval(t, vm, `window.__cinefill.videos().value.length`).ToInteger())
}
