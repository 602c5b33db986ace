package browser

import "browserflow/internal/locator"

// elementsScript enumerates addressable elements in document order, stamps each
// with its ref so ref locators resolve in the live page, and returns plain
// objects mirroring entity.ElementInfo.
func elementsScript() string {
	return `(() => {
		const refAttr = '` + locator.RefAttribute + `';
		const interactive = ['a', 'button', 'input', 'select', 'textarea', 'option', 'summary', 'label', 'img'];
		const skipped = ['script', 'style', 'noscript', 'template', 'head'];
		const markers = ['role', 'aria-label', 'data-testid', 'data-test', 'id'];
		const maxText = 200;

		const ownText = (el) => Array.from(el.childNodes)
			.some(n => n.nodeType === Node.TEXT_NODE && n.textContent.trim() !== '');

		const collapse = (s) => (s || '').replace(/\s+/g, ' ').trim();

		const keep = (el, tag) => interactive.includes(tag) ||
			markers.some(a => el.getAttribute(a)) ||
			ownText(el);

		const result = [];
		if (!document.body) {
			return result;
		}

		const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_ELEMENT, {
			acceptNode: (el) => skipped.includes(el.tagName.toLowerCase())
				? NodeFilter.FILTER_REJECT
				: NodeFilter.FILTER_ACCEPT,
		});

		let el = walker.nextNode();
		while (el) {
			const tag = el.tagName.toLowerCase();

			if (keep(el, tag)) {
				const ref = 'e' + (result.length + 1);

				const attributes = {};
				for (const a of Array.from(el.attributes)) {
					if (a.name !== refAttr) {
						attributes[a.name.toLowerCase()] = a.value;
					}
				}

				el.setAttribute(refAttr, ref);

				let text = collapse(el.textContent);
				if (!text && tag === 'img') {
					text = el.getAttribute('alt') || '';
				}

				result.push({
					ref: ref,
					tag: tag,
					role: el.getAttribute('role') || '',
					text: text.substring(0, maxText),
					ariaLabel: el.getAttribute('aria-label') || '',
					testId: el.getAttribute('data-testid') || el.getAttribute('data-test') || '',
					className: typeof el.className === 'string' ? el.className : '',
					id: el.id || '',
					attributes: attributes,
				});
			}

			el = walker.nextNode();
		}

		return result;
	})()`
}
