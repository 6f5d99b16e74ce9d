package autofill

const (
	NameEmailHTML = `<!DOCTYPE html>
<html>
<body>
	<form>
		<input id="first" name="first-name" type="text" />
		<input id="last" name="last-name" type="text" />
		<input id="email" name="email" type="email" />
	</form>
</body>
</html>`

	FullFormHTML = `<!DOCTYPE html>
<html>
<body>
	<form>
		<label for="fullname">Full Name</label>
		<input id="fullname" type="text" />
		<input id="email" name="email" type="email" />
		<input id="phone" name="phone" type="tel" />
		<input id="ext" name="phone-extension" aria-label="Phone extension" />
		<label for="state">State</label>
		<select id="state">
			<option value="">Select...</option>
			<option>Arizona</option>
			<option>California</option>
		</select>
		<input id="linkedin" name="linkedin_url" />
		<input id="website" name="website" />
	</form>
</body>
</html>`

	NoInputsHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Loading application...</h1>
</body>
</html>`

	LateForm = `<form>
	<div data-automation-id="formField-legalNameSection_firstName">
		<input id="wd-first" data-automation-id="legalNameSection_firstName" />
	</div>
	<button id="wd-device" data-automation-id="phone-device-type" aria-haspopup="listbox">Select One</button>
</form>`

	DeviceOptions = `<div role="listbox">
	<div id="opt-home" data-automation-id="promptOption">Home</div>
	<div id="opt-mobile" data-automation-id="promptOption">Mobile</div>
</div>`
)

const StateNoPlaceholderHTML = `<!DOCTYPE html>
<html>
<body>
	<form>
		<label for="state">State</label>
		<select id="state">
			<option value="AZ">Arizona</option>
			<option value="CA">California</option>
		</select>
	</form>
</body>
</html>`
