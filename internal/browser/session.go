// File: internal/browser/session.go
package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/config"
)

//go:embed js/resolve.js
var resolveJS string

// Session owns one Chrome tab and implements Page on top of CDP. Element
// operations resolve their target through the frame path inside an
// evaluated script, so fields inside same-origin iframes are reachable
// with the same API as top-document fields.
type Session struct {
	id          string
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         config.BrowserConfig
	opTimeout   time.Duration
	probe       time.Duration
	logger      *zap.Logger
}

var _ Page = (*Session)(nil)

// NewSession launches a browser tab configured per cfg. The returned
// session must be closed by the caller.
func NewSession(parent context.Context, cfg config.BrowserConfig, eng config.EngineConfig, logger *zap.Logger) (*Session, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	id := uuid.NewString()
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:          id,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
		cfg:         cfg,
		opTimeout:   eng.OpTimeout,
		probe:       eng.ProbeTimeout,
		logger:      logger.Named("session").With(zap.String("session_id", id)),
	}

	// Start the browser eagerly so failures surface here, not on the
	// first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	s.logger.Debug("Browser session started")
	return s, nil
}

// ID returns the session's run identifier, carried in logs and artifact
// file names.
func (s *Session) ID() string { return s.id }

// Close tears the tab and browser process down.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
	s.logger.Debug("Browser session closed")
}

// run executes chromedp actions under a per-operation timeout derived
// from the session's master context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// eval runs a script and decodes its JSON result into out. A JS null
// result maps to schemas.ErrNotFound so probe timeouts and missing
// elements share one failure class.
func (s *Session) eval(ctx context.Context, timeout time.Duration, script string, out interface{}) error {
	var res json.RawMessage
	err := s.run(ctx, timeout,
		chromedp.Evaluate(resolveJS+"\n"+script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		if ctx.Err() != nil || s.ctx.Err() != nil {
			return fmt.Errorf("context error during evaluation: %w", err)
		}
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	if string(res) == "null" || len(res) == 0 {
		return schemas.ErrNotFound
	}
	if out == nil {
		return nil
	}
	if err := jsoniter.Unmarshal(res, out); err != nil {
		return fmt.Errorf("failed to unmarshal script result: %w (payload: %s)", err, string(res))
	}
	return nil
}

// jsonEncode safely encodes a value for embedding into a script.
func jsonEncode(v interface{}) string {
	b, err := jsoniter.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}

// targetArgs renders the (framePath, selector) argument pair.
func targetArgs(t schemas.Target) string {
	path := t.FramePath
	if path == nil {
		path = []int{}
	}
	return fmt.Sprintf("%s, %s", jsonEncode(path), jsonEncode(t.Selector))
}

// Navigate loads url and waits for the document body. A failure here is
// fatal to the run.
func (s *Session) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, s.cfg.NavigationTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", schemas.ErrFatalNavigation, url, err)
	}
	s.logger.Info("Navigation complete", zap.String("url", url))
	return nil
}

// URL returns the current top-document location.
func (s *Session) URL(ctx context.Context) (string, error) {
	var u string
	if err := s.run(ctx, s.probe, chromedp.Location(&u)); err != nil {
		return "", err
	}
	return u, nil
}

// Evaluate runs an arbitrary script with the shared resolution helpers in
// scope and decodes the result into out.
func (s *Session) Evaluate(ctx context.Context, script string, out interface{}) error {
	return s.eval(ctx, s.opTimeout, script, out)
}

// Screenshot captures the full page to path.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := s.run(ctx, s.opTimeout, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot %q: %w", path, err)
	}
	s.logger.Info("Screenshot saved", zap.String("path", path))
	return nil
}

// CaptureInto captures the page into memory. Used by error paths that
// may not have a writable working directory.
func (s *Session) CaptureInto(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, s.opTimeout, chromedp.ActionFunc(func(c context.Context) error {
		b, err := page.CaptureScreenshot().Do(c)
		if err != nil {
			return err
		}
		buf = b
		return nil
	})); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Session) Exists(ctx context.Context, t schemas.Target) bool {
	var ok bool
	script := fmt.Sprintf(`(function(){ return __afResolve(%s) !== null; })()`, targetArgs(t))
	if err := s.eval(ctx, s.probe, script, &ok); err != nil {
		return false
	}
	return ok
}

func (s *Session) IsVisible(ctx context.Context, t schemas.Target) bool {
	var ok bool
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		return el !== null && __afVisible(el);
	})()`, targetArgs(t))
	if err := s.eval(ctx, s.probe, script, &ok); err != nil {
		return false
	}
	return ok
}

func (s *Session) Query(ctx context.Context, framePath []int, selector string) (schemas.Target, bool) {
	t := schemas.Target{FramePath: framePath, Selector: selector}
	if s.IsVisible(ctx, t) {
		return t, true
	}
	return schemas.Target{}, false
}

// queryWithTextScript marks its hit with a data attribute so anonymous
// elements stay addressable. Markers from earlier calls are removed
// first; a stale marker would make '[data-af-hit="1"]' resolve to
// whichever marked element comes first in document order.
const queryWithTextScript = `(function(path, sel, want){
	const doc = __afDoc(path);
	if (!doc) return null;
	doc.querySelectorAll('[data-af-hit]').forEach(function(e){ e.removeAttribute('data-af-hit'); });
	let nodes;
	try { nodes = doc.querySelectorAll(sel); } catch (e) { return null; }
	const lowered = want.toLowerCase();
	for (const el of nodes) {
		if (!__afVisible(el)) continue;
		const text = (el.textContent || '').trim().toLowerCase();
		if (text === lowered || text.includes(lowered)) {
			if (el.id) return '#' + CSS.escape(el.id);
			el.setAttribute('data-af-hit', '1');
			return '[data-af-hit="1"]';
		}
	}
	return null;
})(%s, %s, %s)`

func (s *Session) QueryWithText(ctx context.Context, framePath []int, selector, text string) (schemas.Target, bool) {
	if framePath == nil {
		framePath = []int{}
	}
	script := fmt.Sprintf(queryWithTextScript, jsonEncode(framePath), jsonEncode(selector), jsonEncode(text))

	var hit string
	if err := s.eval(ctx, s.probe, script, &hit); err != nil {
		return schemas.Target{}, false
	}
	return schemas.Target{FramePath: framePath, Selector: hit}, true
}

// queryAllScript numbers anonymous matches with a data attribute. The
// sequence restarts at 1 on every call, so markers left by a previous
// call are removed up front; otherwise '[data-af-q="1"]' could resolve
// to a stale element from an earlier, different query.
const queryAllScript = `(function(path, sel){
	const doc = __afDoc(path);
	if (!doc) return [];
	doc.querySelectorAll('[data-af-q]').forEach(function(e){ e.removeAttribute('data-af-q'); });
	let nodes;
	try { nodes = doc.querySelectorAll(sel); } catch (e) { return []; }
	const out = [];
	let seq = 0;
	for (const el of nodes) {
		let hit;
		if (el.id) {
			hit = '#' + CSS.escape(el.id);
		} else {
			seq++;
			el.setAttribute('data-af-q', String(seq));
			hit = '[data-af-q="' + seq + '"]';
		}
		const rect = el.getBoundingClientRect();
		out.push({
			target: { framePath: path, selector: hit },
			tagName: el.tagName.toLowerCase(),
			text: (el.textContent || el.value || '').trim(),
			rect: { x: rect.left, y: rect.top, width: rect.width, height: rect.height },
			visible: __afVisible(el),
			disabled: !!el.disabled
		});
	}
	return out;
})(%s, %s)`

func (s *Session) QueryAll(ctx context.Context, framePath []int, selector string) ([]ElementInfo, error) {
	if framePath == nil {
		framePath = []int{}
	}
	script := fmt.Sprintf(queryAllScript, jsonEncode(framePath), jsonEncode(selector))

	var out []ElementInfo
	if err := s.eval(ctx, s.opTimeout, script, &out); err != nil {
		if err == schemas.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (s *Session) Attr(ctx context.Context, t schemas.Target, name string) (string, bool) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		const v = el.getAttribute(%s);
		return v === null ? null : { value: v };
	})()`, targetArgs(t), jsonEncode(name))

	var res struct {
		Value string `json:"value"`
	}
	if err := s.eval(ctx, s.probe, script, &res); err != nil {
		return "", false
	}
	return res.Value, true
}

func (s *Session) Value(ctx context.Context, t schemas.Target) (string, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		if (el.isContentEditable) return { value: el.textContent || '' };
		return { value: el.value !== undefined ? String(el.value) : (el.textContent || '') };
	})()`, targetArgs(t))

	var res struct {
		Value string `json:"value"`
	}
	if err := s.eval(ctx, s.probe, script, &res); err != nil {
		return "", err
	}
	return res.Value, nil
}

func (s *Session) Text(ctx context.Context, t schemas.Target) (string, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		return { value: (el.textContent || '').trim() };
	})()`, targetArgs(t))

	var res struct {
		Value string `json:"value"`
	}
	if err := s.eval(ctx, s.probe, script, &res); err != nil {
		return "", err
	}
	return res.Value, nil
}

func (s *Session) IsChecked(ctx context.Context, t schemas.Target) (bool, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		if (el.type === 'checkbox' || el.type === 'radio') return { value: !!el.checked };
		return { value: el.getAttribute('aria-checked') === 'true' };
	})()`, targetArgs(t))

	var res struct {
		Value bool `json:"value"`
	}
	if err := s.eval(ctx, s.probe, script, &res); err != nil {
		return false, err
	}
	return res.Value, nil
}

func (s *Session) Options(ctx context.Context, t schemas.Target) ([]schemas.OptionData, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el || !el.options) return null;
		const out = [];
		for (let i = 0; i < el.options.length; i++) {
			const o = el.options[i];
			out.push({
				value: o.value !== undefined && o.value !== null ? String(o.value) : '',
				label: (o.text || '').trim(),
				index: i,
				selected: !!o.selected
			});
		}
		return out;
	})()`, targetArgs(t))

	var out []schemas.OptionData
	if err := s.eval(ctx, s.opTimeout, script, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) FileCount(ctx context.Context, t schemas.Target) (int, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		return { value: el.files ? el.files.length : 0 };
	})()`, targetArgs(t))

	var res struct {
		Value int `json:"value"`
	}
	if err := s.eval(ctx, s.probe, script, &res); err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (s *Session) ScrollIntoView(ctx context.Context, t schemas.Target) error {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		el.scrollIntoView({ block: 'center', inline: 'nearest' });
		return true;
	})()`, targetArgs(t))
	var ok bool
	return s.eval(ctx, s.probe, script, &ok)
}

func (s *Session) Focus(ctx context.Context, t schemas.Target) error {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		el.focus();
		return true;
	})()`, targetArgs(t))
	var ok bool
	return s.eval(ctx, s.probe, script, &ok)
}

func (s *Session) Clear(ctx context.Context, t schemas.Target) error {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		if (el.isContentEditable) {
			el.textContent = '';
		} else if (el.value !== undefined) {
			el.value = '';
		}
		__afFire(el, ['input']);
		return true;
	})()`, targetArgs(t))
	var ok bool
	return s.eval(ctx, s.opTimeout, script, &ok)
}

// SetValue writes the value through direct property mutation and fires
// the synthetic events frameworks listen for.
func (s *Session) SetValue(ctx context.Context, t schemas.Target, value string) error {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		if (el.isContentEditable) {
			el.textContent = %s;
		} else {
			el.value = %s;
		}
		__afFire(el, ['input', 'change']);
		return true;
	})()`, targetArgs(t), jsonEncode(value), jsonEncode(value))
	var ok bool
	return s.eval(ctx, s.opTimeout, script, &ok)
}

// Type simulates keystrokes. Top-document elements get real key events;
// framed elements fall back to incremental value mutation with input
// events per character, which most validation hooks accept.
func (s *Session) Type(ctx context.Context, t schemas.Target, text string) error {
	if !t.InFrame() {
		return s.run(ctx, s.opTimeout, chromedp.SendKeys(t.Selector, text, chromedp.ByQuery))
	}
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		el.focus();
		const text = %s;
		for (const ch of text) {
			if (el.isContentEditable) {
				el.textContent += ch;
			} else {
				el.value = (el.value || '') + ch;
			}
			__afFire(el, ['input']);
		}
		__afFire(el, ['change']);
		return true;
	})()`, targetArgs(t), jsonEncode(text))
	var ok bool
	return s.eval(ctx, s.opTimeout, script, &ok)
}

func (s *Session) Click(ctx context.Context, t schemas.Target) error {
	if !t.InFrame() {
		return s.run(ctx, s.opTimeout, chromedp.Click(t.Selector, chromedp.ByQuery))
	}
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		el.click();
		return true;
	})()`, targetArgs(t))
	var ok bool
	return s.eval(ctx, s.opTimeout, script, &ok)
}

// SetChecked forces the checked state through property mutation plus the
// change/click/input event volley some handlers require.
func (s *Session) SetChecked(ctx context.Context, t schemas.Target, checked bool) error {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		const want = %s;
		if (el.type === 'checkbox' || el.type === 'radio') {
			el.checked = want;
		} else {
			el.setAttribute('aria-checked', want ? 'true' : 'false');
		}
		__afFire(el, ['change', 'click', 'input']);
		return true;
	})()`, targetArgs(t), jsonEncode(checked))
	var ok bool
	return s.eval(ctx, s.opTimeout, script, &ok)
}

// SelectValue picks the option whose value matches, exact first then
// case-insensitive, and returns the select's resulting value.
func (s *Session) SelectValue(ctx context.Context, t schemas.Target, value string) (string, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el || !el.options) return null;
		const want = %s;
		let match = null;
		for (const o of el.options) { if (o.value === want) { match = o; break; } }
		if (!match) {
			const lowered = want.toLowerCase();
			for (const o of el.options) { if (o.value.toLowerCase() === lowered) { match = o; break; } }
		}
		if (!match) return null;
		el.value = match.value;
		__afFire(el, ['change', 'input']);
		return { value: el.value };
	})()`, targetArgs(t), jsonEncode(value))

	var res struct {
		Value string `json:"value"`
	}
	if err := s.eval(ctx, s.opTimeout, script, &res); err != nil {
		return "", err
	}
	return res.Value, nil
}

// SelectLabel picks the option whose visible label matches, exact first
// then containment either way, and returns the resulting value.
func (s *Session) SelectLabel(ctx context.Context, t schemas.Target, label string) (string, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el || !el.options) return null;
		const want = %s.toLowerCase().trim();
		let match = null;
		for (const o of el.options) {
			if ((o.text || '').toLowerCase().trim() === want) { match = o; break; }
		}
		if (!match) {
			for (const o of el.options) {
				const text = (o.text || '').toLowerCase().trim();
				if (text && (text.includes(want) || want.includes(text))) { match = o; break; }
			}
		}
		if (!match) return null;
		el.value = match.value;
		__afFire(el, ['change', 'input']);
		return { value: el.value };
	})()`, targetArgs(t), jsonEncode(label))

	var res struct {
		Value string `json:"value"`
	}
	if err := s.eval(ctx, s.opTimeout, script, &res); err != nil {
		return "", err
	}
	return res.Value, nil
}

func (s *Session) SelectIndex(ctx context.Context, t schemas.Target, index int) (string, error) {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el || !el.options) return null;
		const idx = %d;
		if (idx < 0 || idx >= el.options.length) return null;
		el.selectedIndex = idx;
		__afFire(el, ['change', 'input']);
		return { value: el.value };
	})()`, targetArgs(t), index)

	var res struct {
		Value string `json:"value"`
	}
	if err := s.eval(ctx, s.opTimeout, script, &res); err != nil {
		return "", err
	}
	return res.Value, nil
}

// SetFiles attaches local files to a file input. Only top-document
// inputs are supported; upload widgets inside frames are rare enough
// that absence is reported instead of attempted.
func (s *Session) SetFiles(ctx context.Context, t schemas.Target, paths []string) error {
	if t.InFrame() {
		s.logger.Debug("File inputs inside frames are not supported", zap.String("selector", t.Selector))
		return schemas.ErrNotFound
	}
	return s.run(ctx, s.opTimeout, chromedp.SetUploadFiles(t.Selector, paths, chromedp.ByQuery))
}

// PressKey focuses the target and dispatches a key. Same-process frames
// share the tab's input domain, so the focused element receives it.
func (s *Session) PressKey(ctx context.Context, t schemas.Target, key string) error {
	if err := s.Focus(ctx, t); err != nil {
		return err
	}
	return s.run(ctx, s.opTimeout, chromedp.KeyEvent(key))
}

func (s *Session) DispatchEvents(ctx context.Context, t schemas.Target, names ...string) error {
	script := fmt.Sprintf(`(function(){
		const el = __afResolve(%s);
		if (!el) return null;
		__afFire(el, %s);
		return true;
	})()`, targetArgs(t), jsonEncode(names))
	var ok bool
	return s.eval(ctx, s.opTimeout, script, &ok)
}
