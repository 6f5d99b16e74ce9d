package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	// ApplicationHTML records every event it sees in window.__events and
	// renders its phone type options a while after the trigger is clicked.
	ApplicationHTML = `<!DOCTYPE html>
<html>
<head><title>Apply</title></head>
<body>
	<form id="apply">
		<label for="first">First Name</label>
		<input id="first" name="first-name" type="text" />
		<input id="last" name="last-name" type="text" />
		<input id="email" name="email" type="email" />
		<input id="ext" name="phone-extension" />
		<input id="hidden" type="hidden" name="token" />
		<label for="state">State</label>
		<select id="state">
			<option value="">Select...</option>
			<option value="AZ">Arizona</option>
			<option value="CA">California</option>
		</select>
		<span id="device-label">Phone Device Type</span>
		<button id="device" type="button" aria-haspopup="listbox" aria-labelledby="device-label">Select One</button>
	</form>
	<script>
		window.__events = [];
		['input', 'change', 'focus', 'blur', 'keydown', 'keyup', 'click', 'pointerdown', 'mousedown'].forEach(function (type) {
			document.addEventListener(type, function (e) {
				window.__events.push((e.target.id || e.target.tagName) + ':' + type);
			}, true);
		});
		document.getElementById('device').addEventListener('click', function () {
			setTimeout(function () {
				if (document.getElementById('menu')) return;
				var menu = document.createElement('ul');
				menu.id = 'menu';
				menu.setAttribute('role', 'listbox');
				['Home', 'Mobile', 'Work'].forEach(function (text) {
					var li = document.createElement('li');
					li.setAttribute('role', 'option');
					li.id = 'opt-' + text.toLowerCase();
					li.textContent = text;
					li.addEventListener('click', function () {
						document.getElementById('device').textContent = text;
						menu.remove();
					});
					menu.appendChild(li);
				});
				document.body.appendChild(menu);
			}, 250);
		});
	</script>
</body>
</html>`
)
