package htmldom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autofill-agent/internal/domain/entity"
)

const describeHTML = `<html><body>
<form>
  <div data-automation-id="legalNameSection" aria-label="Legal Name">
    <label for="fn">First Name</label>
    <input id="fn" name="given" data-automation-id="legalNameSection_firstName" placeholder="Ada">
  </div>
  <label>Email <input id="em" type="email" value=" ada@x.com "></label>
  <input id="hid" type="hidden" name="token">
  <div style="display: none"><input id="inner" name="nested"></div>
  <fieldset disabled><input id="fs" name="fs"></fieldset>
  <input id="ro" readonly>
  <textarea id="ta">hello</textarea>
  <div id="ce" contenteditable="true">rich</div>
  <span id="lbl">Phone type</span>
  <button id="dd" aria-haspopup="listbox" aria-labelledby="lbl">Select One</button>
  <select id="st">
    <option value="">Select...</option>
    <option value="CA">California</option>
    <optgroup label="x" disabled><option>Texas</option></optgroup>
  </select>
  <div id="zero" style="height: 0">x</div>
</form>
</body></html>`

func mustParse(t *testing.T, src string, opts ...Option) *Page {
	t.Helper()
	p, err := Parse("https://jobs.example.com/apply", src, opts...)
	require.NoError(t, err)
	return p
}

func describe(t *testing.T, p *Page, id string) *entity.ElementInfo {
	t.Helper()
	el := p.ByID(id)
	require.NotNil(t, el, id)
	info, err := el.Describe(context.Background(), entity.DefaultDescribeOptions())
	require.NoError(t, err)
	return info
}

func TestDescribe(t *testing.T) {
	p := mustParse(t, describeHTML)

	fn := describe(t, p, "fn")
	assert.Equal(t, entity.KindTextInput, fn.Kind)
	assert.Equal(t, "First Name", fn.Label)
	assert.Equal(t, "legalNameSection_firstName", fn.StructuralID)
	assert.Equal(t, []string{"legalNameSection", "Legal Name"}, fn.Ancestors)
	assert.True(t, fn.Interactable())

	em := describe(t, p, "em")
	assert.Equal(t, "Email", em.Label)
	assert.True(t, em.HasValue())

	assert.False(t, describe(t, p, "hid").Visible)
	assert.False(t, describe(t, p, "inner").Visible)
	assert.True(t, describe(t, p, "fs").Disabled)
	assert.True(t, describe(t, p, "ro").ReadOnly)

	ta := describe(t, p, "ta")
	assert.Equal(t, entity.KindTextArea, ta.Kind)
	assert.Equal(t, "hello", ta.Value)

	assert.Equal(t, entity.KindContentEditable, describe(t, p, "ce").Kind)

	dd := describe(t, p, "dd")
	assert.Equal(t, entity.KindCustomWidget, dd.Kind)
	assert.Equal(t, "Phone type", dd.Label)
	assert.False(t, dd.HasValue())

	st := describe(t, p, "st")
	assert.Equal(t, entity.KindNativeSelect, st.Kind)
	assert.False(t, st.HasValue())
	assert.False(t, st.Chosen)

	zero := describe(t, p, "zero")
	assert.True(t, zero.Visible)
	assert.False(t, zero.HasSize)
}

func TestQuery_Selectors(t *testing.T) {
	p := mustParse(t, `<html><body>
<ul role="listbox"><li id="a" role="option">One</li><li id="b">Two</li></ul>
<div class="select__menu x-menu"><div class="select__option x-option" id="c">Three</div></div>
<input id="d" name="urls[LinkedIn]">
<input id="e" name="it's">
</body></html>`)
	ctx := context.Background()

	cases := []struct {
		name string
		sel  entity.Selector
		want []string
	}{
		{"within", entity.Tags("li").In(entity.Tags("ul").With("role", entity.OpEquals, "listbox")), []string{"a", "b"}},
		{"role", entity.AttrEquals("role", "option"), []string{"a"}},
		{"class word", entity.ClassName("select__option"), []string{"c"}},
		{"contains within", entity.AttrContains("class", "-option").In(entity.AttrContains("class", "-menu")), []string{"c"}},
		{"brackets", entity.AttrEquals("name", "urls[LinkedIn]"), []string{"d"}},
		{"quote", entity.AttrEquals("name", "it's"), []string{"e"}},
		{"prefix", entity.Selector{Attrs: []entity.AttrMatch{{Name: "name", Op: entity.OpPrefix, Value: "urls"}}}, []string{"d"}},
		{"tags", entity.Tags("input", "li"), []string{"a", "b", "d", "e"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			els, err := p.Query(ctx, tc.sel)
			require.NoError(t, err)
			var ids []string
			for _, el := range els {
				ids = append(ids, attrVal(el.(*Element).node, "id"))
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestElement_RefIsStable(t *testing.T) {
	p := mustParse(t, describeHTML)
	a := p.ByID("fn")
	b := p.ByID("fn")
	assert.Equal(t, a.Ref(), b.Ref())
	assert.NotEqual(t, a.Ref(), p.ByID("em").Ref())
}

func TestElement_WritesAndEvents(t *testing.T) {
	p := mustParse(t, describeHTML)
	ctx := context.Background()

	fn := p.ByID("fn")
	require.NoError(t, fn.SetNativeValue(ctx, "Ada"))
	require.NoError(t, fn.Dispatch(ctx, entity.Event{Type: entity.EventInput, Data: "Ada"}))
	v, err := fn.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
	assert.Equal(t, []entity.EventType{entity.EventInput}, p.EventTypes(fn.Ref()))

	ta := p.ByID("ta")
	require.NoError(t, ta.SetNativeValue(ctx, "bye"))
	v, _ = ta.Value(ctx)
	assert.Equal(t, "bye", v)

	assert.ErrorIs(t, p.ByID("dd").SetNativeValue(ctx, "x"), entity.ErrNotTextField)
	_, err = fn.Options(ctx)
	assert.ErrorIs(t, err, entity.ErrNotChoiceField)
}

func TestElement_Select(t *testing.T) {
	p := mustParse(t, describeHTML)
	ctx := context.Background()
	st := p.ByID("st")

	opts, err := st.Options(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 3)
	assert.True(t, opts[0].Placeholder())
	assert.Equal(t, entity.Option{Index: 1, Value: "CA", Text: "California"}, opts[1])
	assert.Equal(t, "Texas", opts[2].Value)
	assert.True(t, opts[2].Disabled)

	require.NoError(t, st.SelectIndex(ctx, 1))
	v, _ := st.Value(ctx)
	assert.Equal(t, "CA", v)
	assert.Error(t, st.SelectIndex(ctx, 9))
}

func TestHooks(t *testing.T) {
	var seen []entity.EventType
	p := mustParse(t, describeHTML, WithHooks(Hooks{
		FilterValue: func(_, value string, last entity.EventType) string {
			if last != entity.EventKeyDown {
				return ""
			}
			return value
		},
		OnEvent: func(_ *Page, _ string, ev entity.Event) { seen = append(seen, ev.Type) },
	}))
	ctx := context.Background()
	fn := p.ByID("fn")

	require.NoError(t, fn.SetNativeValue(ctx, "Ada"))
	v, _ := fn.Value(ctx)
	assert.Empty(t, v)

	require.NoError(t, fn.Dispatch(ctx, entity.Event{Type: entity.EventKeyDown, Key: "A"}))
	require.NoError(t, fn.SetNativeValue(ctx, "A"))
	v, _ = fn.Value(ctx)
	assert.Equal(t, "A", v)
	assert.Equal(t, []entity.EventType{entity.EventKeyDown}, seen)
}

func TestAppendToBodyAndNeutralClick(t *testing.T) {
	p := mustParse(t, describeHTML)
	ctx := context.Background()

	els, err := p.Query(ctx, entity.AttrEquals("role", "option"))
	require.NoError(t, err)
	assert.Empty(t, els)

	require.NoError(t, p.AppendToBody(`<div role="listbox"><div role="option">Mobile</div></div>`))
	els, err = p.Query(ctx, entity.AttrEquals("role", "option"))
	require.NoError(t, err)
	assert.Len(t, els, 1)

	has, err := p.HasAttr(ctx, "data-automation-id")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, p.ClickNeutral(ctx))
	assert.Equal(t, 1, p.NeutralClicks())
}

func TestDescribe_NativeSelectDefaultOption(t *testing.T) {
	p := mustParse(t, `<html><body>
<select id="plain"><option value="AZ">Arizona</option><option value="CA">California</option></select>
<select id="preset"><option value="AZ">Arizona</option><option value="CA" selected>California</option></select>
</body></html>`)

	plain := describe(t, p, "plain")
	assert.Equal(t, "AZ", plain.Value)
	assert.False(t, plain.Chosen)
	assert.False(t, plain.HasValue())

	preset := describe(t, p, "preset")
	assert.Equal(t, "CA", preset.Value)
	assert.True(t, preset.Chosen)
	assert.True(t, preset.HasValue())

	require.NoError(t, p.ByID("plain").SelectIndex(context.Background(), 0))
	assert.True(t, describe(t, p, "plain").HasValue())
}
