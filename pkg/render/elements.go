package render

// inlineElements stay on one line in pretty output.
var inlineElements = map[string]bool{
	"a": true, "b": true, "br": true, "code": true, "em": true,
	"i": true, "label": true, "small": true, "span": true, "strong": true,
}

// booleanAttrs render as a bare name when true and not at all when false.
var booleanAttrs = map[string]bool{
	"async": true, "autofocus": true, "checked": true, "defer": true,
	"disabled": true, "hidden": true, "readonly": true, "required": true,
	"selected": true,
}
