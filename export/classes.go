package export

// symbolClasses 为非字母数字符号命名。
var symbolClasses = map[rune]string{
	'.':  "symbol_dot",
	',':  "symbol_comma",
	'?':  "symbol_question_mark",
	'!':  "symbol_exclamation_mark",
	':':  "symbol_colon",
	';':  "symbol_semicolon",
	'@':  "symbol_at",
	'#':  "symbol_hash",
	'$':  "symbol_dollar",
	'%':  "symbol_percent",
	'^':  "symbol_hat",
	'&':  "symbol_ampersand",
	'*':  "symbol_asterisk",
	'|':  "symbol_pipe",
	'-':  "symbol_minus",
	'_':  "symbol_underscore",
	'+':  "symbol_plus",
	'=':  "symbol_equals",
	'/':  "symbol_slash",
	'\\': "symbol_backslash",
	'~':  "symbol_tilde",
	'`':  "symbol_backtick",
	'(':  "symbol_parenthesis_left",
	')':  "symbol_parenthesis_right",
	'[':  "symbol_square_bracket_left",
	']':  "symbol_square_bracket_right",
	'{':  "symbol_curly_brace_left",
	'}':  "symbol_curly_brace_right",
	'<':  "symbol_angle_bracket_left",
	'>':  "symbol_angle_bracket_right",
	'"':  "symbol_double_quote_neutral",
	'“':  "symbol_double_quote_left",
	'”':  "symbol_double_quote_right",
	'\'': "symbol_single_quote_neutral",
	'‘':  "symbol_single_quote_left",
	'’':  "symbol_single_quote_right",
	'«':  "symbol_guillemet_left",
	'»':  "symbol_guillemet_right",
	'©':  "symbol_copyright",
	'®':  "symbol_registration_mark",
	'§':  "symbol_section_sign",
}

// ClassName maps a symbol to its training-class name, used as the crop
// sub-directory. Letters are lower_case_x / upper_case_X, digits numeral_N.
func ClassName(r rune) (string, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return "lower_case_" + string(r), true
	case r >= 'A' && r <= 'Z':
		return "upper_case_" + string(r), true
	case r >= '0' && r <= '9':
		return "numeral_" + string(r), true
	}
	name, ok := symbolClasses[r]
	return name, ok
}
