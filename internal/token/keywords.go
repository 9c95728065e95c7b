package token

var keywords = map[string]Kind{
	"if":       KwIf,
	"else":     KwElse,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
	"while":    KwWhile,
	"do":       KwDo,
	"for":      KwFor,
	"in":       KwIn,
	"fun":      KwFun,
	"return":   KwReturn,
	"break":    KwBreak,
	"breakall": KwBreakAll,
	"continue": KwContinue,
	"echo":     KwEcho,
	"var":      KwVar,
	"true":     KwTrue,
	"false":    KwFalse,
	"null":     KwNull,
	"and":      KwAnd,
	"or":       KwOr,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые - только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// forbidden are identifiers the host runtime reserves for itself; scripts
// may not bind them as variables or parameters.
var forbidden = map[string]struct{}{
	"this":              {},
	"params":            {},
	"preValue":          {},
	"threadFactoryName": {},
}

// IsReservedName reports whether name collides with a keyword or a
// host-reserved identifier.
func IsReservedName(name string) bool {
	if _, ok := keywords[name]; ok {
		return true
	}
	_, ok := forbidden[name]
	return ok
}
