package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createTempDir(t *testing.T) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "i18n-test")
	if err != nil {
		t.Fatalf("no se pudo crear el directorio temporal: %v", err)
	}
	return tmpDir
}

func createTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("no se pudo crear el archivo de prueba: %v", err)
	}
}

func TestNewTranslations(t *testing.T) {
	t.Run("Should successfully create translations with valid language", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		createTestFile(t, tmpDir, "active.es.toml", `
		[HelloWorld]
		other = "¡Hola Mundo!"
		`)

		// act
		trans, err := NewTranslations("es", tmpDir)

		// assert
		if err != nil {
			t.Errorf("NewTranslations() no debería retornar error, obtuvo: %v", err)
		}
		if trans == nil {
			t.Error("NewTranslations() no debería retornar nil")
		}
	})

	t.Run("Should fail with empty language", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		// act
		trans, err := NewTranslations("", tmpDir)

		// assert
		if err == nil {
			t.Error("NewTranslations() debería retornar error con idioma vacío")
		}
		if trans != nil {
			t.Error("NewTranslations() debería retornar nil cuando falla")
		}
	})

	t.Run("Should fall back to embedded defaults without locale files", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		// act
		trans, err := NewTranslations("en", tmpDir)

		// assert
		if err != nil {
			t.Fatalf("NewTranslations() no debería retornar error, obtuvo: %v", err)
		}

		msg := trans.GetMessage("analyzing_changes", 0, nil)
		if msg != "Analyzing changes..." {
			t.Errorf("se esperaba el mensaje embebido por defecto, se obtuvo: %s", msg)
		}
	})
}

func TestSetLanguage(t *testing.T) {
	t.Run("Should change to a valid language", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		createTestFile(t, tmpDir, "active.es.toml", `
		[analyzing_changes]
		other = "Analizando cambios..."
		`)

		trans, err := NewTranslations("en", tmpDir)
		if err != nil {
			t.Fatal(err)
		}

		// act
		err = trans.SetLanguage("es")

		// assert
		if err != nil {
			t.Errorf("SetLanguage() no debería retornar error, obtuvo: %v", err)
		}

		msg := trans.GetMessage("analyzing_changes", 0, nil)
		if msg != "Analizando cambios..." {
			t.Errorf("se esperaba el mensaje en español, se obtuvo: %s", msg)
		}
	})

	t.Run("Should fail with an unsupported language", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		trans, err := NewTranslations("en", tmpDir)
		if err != nil {
			t.Fatal(err)
		}

		// act
		err = trans.SetLanguage("klingon")

		// assert
		if err == nil {
			t.Error("SetLanguage() debería retornar error con idioma no soportado")
		}
	})
}

func TestGetMessage(t *testing.T) {
	t.Run("Should interpolate template data", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		trans, err := NewTranslations("en", tmpDir)
		if err != nil {
			t.Fatal(err)
		}

		// act
		msg := trans.GetMessage("review.fetching_pr", 0, map[string]interface{}{
			"Number": 42,
			"Owner":  "Tomas-vilte",
			"Repo":   "MateReview",
		})

		// assert
		if !strings.Contains(msg, "#42") || !strings.Contains(msg, "Tomas-vilte/MateReview") {
			t.Errorf("la interpolación falló: %s", msg)
		}
	})

	t.Run("Should handle plural forms", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		trans, err := NewTranslations("en", tmpDir)
		if err != nil {
			t.Fatal(err)
		}

		// act
		singular := trans.GetMessage("review.skipped_files", 1, map[string]interface{}{"Count": 1})
		plural := trans.GetMessage("review.skipped_files", 3, map[string]interface{}{"Count": 3})

		// assert
		if !strings.HasPrefix(singular, "1 file skipped") {
			t.Errorf("forma singular inesperada: %s", singular)
		}
		if !strings.HasPrefix(plural, "3 files skipped") {
			t.Errorf("forma plural inesperada: %s", plural)
		}
	})

	t.Run("Should report missing translations", func(t *testing.T) {
		// arrange
		tmpDir := createTempDir(t)
		defer os.RemoveAll(tmpDir)

		trans, err := NewTranslations("en", tmpDir)
		if err != nil {
			t.Fatal(err)
		}

		// act
		msg := trans.GetMessage("no_such_message_id", 0, nil)

		// assert
		if msg != "Translation missing: no_such_message_id" {
			t.Errorf("se esperaba el marcador de traducción faltante, se obtuvo: %s", msg)
		}
	})
}
