package classifier

const (
	GenericFormHTML = `<!DOCTYPE html>
<html>
<body>
	<form>
		<input id="first" name="first-name" type="text" />
		<input id="last" name="last-name" type="text" />
		<input id="email" name="email" type="email" />
		<input id="phone" name="phone" type="tel" />
		<input id="ext" name="phone-ext" aria-label="Phone extension" />
		<label for="country">Country</label>
		<select id="country"><option value="">Select...</option><option>United States</option></select>
		<label for="state">State / Province</label>
		<select id="state"><option value="">Select...</option><option value="CA">California</option></select>
		<input id="filled" name="city" value="Paris" />
		<input id="hidden" name="zip" type="hidden" />
		<input id="disabled" name="linkedin" disabled />
		<input id="readonly" name="github" readonly />
		<input id="unknown" name="favorite_color" />
		<button id="submit" type="submit">Submit</button>
	</form>
</body>
</html>`

	WorkdayFormHTML = `<!DOCTYPE html>
<html>
<body>
	<div data-automation-id="applyFlowPage">
		<div data-automation-id="formField-legalNameSection_firstName">
			<label>Given Name</label>
			<input id="wd-first" data-automation-id="legalNameSection_firstName" />
		</div>
		<div data-automation-id="formField-legalNameSection_lastName">
			<input id="wd-last" data-automation-id="legalNameSection_lastName" value="Prefilled" />
		</div>
		<div data-automation-id="formField-phone-number">
			<input id="wd-phone" type="tel" />
		</div>
		<div data-automation-id="formField-phone-extension">
			<input id="wd-ext" aria-label="Phone Number" />
		</div>
		<button id="wd-device" data-automation-id="phone-device-type" aria-haspopup="listbox">Select One</button>
		<div data-automation-id="formField-email">
			<input id="wd-email" name="candidateEmail" />
		</div>
		<input id="wd-city" aria-label="City" />
	</div>
</body>
</html>`

	EmptyHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Thanks for applying</h1>
	<input type="hidden" name="token" />
</body>
</html>`
)
