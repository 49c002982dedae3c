package parser

import "regexp"

var (
	// leadingFenceRegex は応答先頭の "```" や "```yaml" などのコードフェンスに一致します。
	leadingFenceRegex = regexp.MustCompile("^\\s*```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?")

	// trailingFenceRegex は応答末尾の "```" に一致します。
	trailingFenceRegex = regexp.MustCompile("\\r?\\n?[ \\t]*```\\s*$")
)
