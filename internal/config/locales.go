package config

import "log"

const (
	LangEN = "en"
	LangES = "es"
)

// GetLocaleConfig normaliza el idioma de la corrida a uno soportado.
// El config validado no trae idiomas raros, pero --lang acepta cualquier
// cosa y un config editado a mano también.
func GetLocaleConfig(lang string) string {
	switch lang {
	case LangEN:
		return LangEN
	case LangES:
		return LangES
	default:
		log.Printf("Idioma '%s' no soportado. Usando configuración por defecto (Inglés).", lang)
		return LangEN
	}
}
