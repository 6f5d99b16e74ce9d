package rod

// The element scripts run with this bound to the element. Results that carry
// structure are returned as JSON strings to keep decoding in Go.

const describeJS = `(structuralAttr, depth) => {
	const el = this;
	const tag = el.tagName.toLowerCase();
	const attr = (n) => el.getAttribute(n) || '';
	const type = attr('type').toLowerCase();
	const role = attr('role').toLowerCase();
	const textTypes = ['', 'text', 'email', 'tel', 'url', 'search', 'number', 'password'];
	const squash = (s) => (s || '').replace(/\s+/g, ' ').trim();

	let kind = 'other';
	if (tag === 'input') {
		kind = textTypes.includes(type) ? 'text_input' : 'other';
	} else if (tag === 'textarea') {
		kind = 'text_area';
	} else if (tag === 'select') {
		kind = 'native_select';
	} else if (el.isContentEditable || role === 'textbox') {
		kind = 'content_editable';
	} else if (role === 'combobox' || attr('aria-haspopup').toLowerCase() === 'listbox') {
		kind = 'custom_widget';
	}

	let label = '';
	if (el.id) {
		const l = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
		if (l) label = squash(l.innerText);
	}
	if (!label) {
		const l = el.closest('label');
		if (l) label = squash(l.innerText);
	}
	if (!label && attr('aria-labelledby')) {
		label = attr('aria-labelledby').split(/\s+/)
			.map((id) => document.getElementById(id))
			.filter(Boolean)
			.map((n) => squash(n.innerText))
			.join(' ');
	}

	const ancestors = [];
	let node = el.parentElement;
	for (let i = 0; node && i < depth; i++, node = node.parentElement) {
		if (structuralAttr && node.getAttribute(structuralAttr)) ancestors.push(node.getAttribute(structuralAttr));
		if (node.getAttribute('aria-label')) ancestors.push(node.getAttribute('aria-label'));
	}

	const style = getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	const visible = type !== 'hidden' &&
		style.display !== 'none' &&
		style.visibility !== 'hidden' &&
		(el.offsetParent !== null || style.position === 'fixed' || rect.width > 0 || rect.height > 0);

	let value = '';
	if (kind === 'text_input' || kind === 'text_area' || kind === 'native_select') {
		value = el.value || '';
	} else if (kind === 'content_editable' || kind === 'custom_widget') {
		value = squash(el.innerText);
	}

	const chosen = kind === 'native_select' &&
		(el.selectedIndex > 0 || Array.from(el.options).some((o) => o.defaultSelected));

	return JSON.stringify({
		kind: kind,
		tag: tag,
		type: type,
		name: attr('name'),
		id: el.id || '',
		placeholder: attr('placeholder'),
		aria_label: attr('aria-label'),
		test_id: attr('data-testid'),
		structural_id: structuralAttr ? attr(structuralAttr) : '',
		autocomplete: attr('autocomplete'),
		role: attr('role'),
		value: value,
		chosen: chosen,
		text: (kind === 'custom_widget' || kind === 'other') ? squash(el.innerText) : '',
		label: label,
		ancestors: ancestors,
		visible: visible,
		has_size: visible && rect.width > 0 && rect.height > 0,
		disabled: !!el.disabled || attr('aria-disabled') === 'true' || !!el.closest('fieldset[disabled]'),
		read_only: !!el.readOnly || attr('aria-readonly') === 'true',
	});
}`

const valueJS = `() => {
	if (this.isContentEditable) return (this.innerText || '').replace(/\s+/g, ' ').trim();
	return this.value == null ? '' : String(this.value);
}`

// setNativeValueJS calls the prototype's value setter so that frameworks
// overriding the instance property still see the write.
const setNativeValueJS = `(v) => {
	if (this.isContentEditable) {
		this.innerText = v;
		return;
	}
	let proto = HTMLInputElement.prototype;
	if (this instanceof HTMLTextAreaElement) proto = HTMLTextAreaElement.prototype;
	if (this instanceof HTMLSelectElement) proto = HTMLSelectElement.prototype;
	const desc = Object.getOwnPropertyDescriptor(proto, 'value');
	if (desc && desc.set) {
		desc.set.call(this, v);
	} else {
		this.value = v;
	}
}`

const dispatchJS = `(type, data, key) => {
	let ev;
	switch (type) {
	case 'input':
		ev = new InputEvent('input', { bubbles: true, cancelable: false, data: data || null, inputType: 'insertText' });
		break;
	case 'keydown':
	case 'keyup':
		ev = new KeyboardEvent(type, { bubbles: true, cancelable: true, key: key, code: key.length === 1 ? 'Key' + key.toUpperCase() : key });
		break;
	case 'focus':
		this.focus({ preventScroll: true });
		ev = new FocusEvent('focus', { bubbles: false });
		break;
	case 'blur':
		ev = new FocusEvent('blur', { bubbles: false });
		break;
	default:
		ev = new Event(type, { bubbles: true, cancelable: true });
	}
	this.dispatchEvent(ev);
}`

const pointerJS = `(types) => {
	const rect = this.getBoundingClientRect();
	const opts = {
		bubbles: true,
		cancelable: true,
		view: window,
		clientX: rect.left + rect.width / 2,
		clientY: rect.top + rect.height / 2,
		button: 0,
	};
	for (const type of types) {
		let ev;
		if (type.startsWith('pointer')) {
			ev = new PointerEvent(type, Object.assign({ pointerId: 1, pointerType: 'mouse', isPrimary: true }, opts));
		} else if (type.startsWith('mouse') || type === 'click') {
			ev = new MouseEvent(type, opts);
		} else if (type === 'focus') {
			this.focus({ preventScroll: true });
			ev = new FocusEvent('focus', { bubbles: false });
		} else {
			ev = new Event(type, { bubbles: true });
		}
		this.dispatchEvent(ev);
	}
}`

const optionsJS = `() => JSON.stringify(Array.from(this.options || []).map((o, i) => ({
	index: i,
	value: o.value,
	text: (o.text || '').replace(/\s+/g, ' ').trim(),
	disabled: o.disabled || (o.parentElement && o.parentElement.tagName === 'OPTGROUP' && o.parentElement.disabled),
})))`

const selectIndexJS = `(i) => {
	this.selectedIndex = i;
	return this.selectedIndex === i;
}`

// neutralClickJS clicks the top-left corner of the body, away from any form
// control, the way a user dismisses a popup.
const neutralClickJS = `() => {
	const target = document.body || document.documentElement;
	const opts = { bubbles: true, cancelable: true, view: window, clientX: 1, clientY: 1, button: 0 };
	for (const type of ['mousedown', 'mouseup', 'click']) {
		target.dispatchEvent(new MouseEvent(type, opts));
	}
	if (document.activeElement && document.activeElement !== document.body) {
		document.activeElement.blur();
	}
}`
