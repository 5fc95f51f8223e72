package diff

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

var _ ports.DiffParser = (*Parser)(nil)

// Parser construye el DiffModel desde texto de diff unificado. La
// numeración original de líneas se preserva exacta en ambos lados; la
// validez de posiciones de la agregación depende de eso.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(raw string) (*models.DiffModel, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, errors.NewDiffParseError("no se pudo parsear el diff", err)
	}

	model := &models.DiffModel{}
	for _, file := range files {
		change, err := convertFile(file)
		if err != nil {
			return nil, err
		}
		model.Files = append(model.Files, change)
	}

	return model, nil
}

func convertFile(file *gitdiff.File) (models.FileChange, error) {
	change := models.FileChange{
		Binary: file.IsBinary,
	}

	switch {
	case file.IsNew:
		change.Kind = models.ChangeAdded
		change.Path = file.NewName
	case file.IsDelete:
		change.Kind = models.ChangeDeleted
		change.Path = file.OldName
	case file.IsRename:
		change.Kind = models.ChangeRenamed
		change.Path = file.NewName
		change.OldPath = file.OldName
	default:
		change.Kind = models.ChangeModified
		change.Path = file.NewName
		if change.Path == "" {
			change.Path = file.OldName
		}
	}

	if change.Path == "" {
		return change, errors.NewDiffParseError("archivo sin path en el diff", nil)
	}
	change.Language = DetectLanguage(change.Path)

	for _, fragment := range file.TextFragments {
		hunk, err := convertFragment(change.Path, fragment)
		if err != nil {
			return change, err
		}
		change.Hunks = append(change.Hunks, hunk)
	}

	return change, nil
}

func convertFragment(path string, fragment *gitdiff.TextFragment) (models.Hunk, error) {
	hunk := models.Hunk{
		OldStart: int(fragment.OldPosition),
		OldCount: int(fragment.OldLines),
		NewStart: int(fragment.NewPosition),
		NewCount: int(fragment.NewLines),
	}

	if hunk.OldStart < 0 || hunk.NewStart < 0 || hunk.OldCount < 0 || hunk.NewCount < 0 {
		return hunk, errors.NewDiffParseError(
			fmt.Sprintf("rangos negativos en un hunk de %s", path), nil)
	}

	oldLine := hunk.OldStart
	newLine := hunk.NewStart
	var oldSeen, newSeen int

	for _, raw := range fragment.Lines {
		content := strings.TrimSuffix(raw.Line, "\n")

		switch raw.Op {
		case gitdiff.OpContext:
			hunk.Lines = append(hunk.Lines, models.Line{
				Kind:      models.LineContext,
				Content:   content,
				OldNumber: oldLine,
				NewNumber: newLine,
			})
			oldLine++
			newLine++
			oldSeen++
			newSeen++
		case gitdiff.OpAdd:
			hunk.Lines = append(hunk.Lines, models.Line{
				Kind:      models.LineAdded,
				Content:   content,
				NewNumber: newLine,
			})
			newLine++
			newSeen++
		case gitdiff.OpDelete:
			hunk.Lines = append(hunk.Lines, models.Line{
				Kind:      models.LineRemoved,
				Content:   content,
				OldNumber: oldLine,
			})
			oldLine++
			oldSeen++
		}
	}

	// go-gitdiff ya valida los conteos al parsear; esta verificación cubre
	// fragments construidos a mano y deja el invariante explícito.
	if oldSeen != hunk.OldCount || newSeen != hunk.NewCount {
		return hunk, errors.NewDiffParseError(
			fmt.Sprintf("el hunk de %s declara %d/%d líneas pero contiene %d/%d",
				path, hunk.OldCount, hunk.NewCount, oldSeen, newSeen), nil)
	}

	return hunk, nil
}

var languageByExtension = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".rb":    "Ruby",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".scala": "Scala",
	".sh":    "Shell",
	".sql":   "SQL",
	".html":  "HTML",
	".css":   "CSS",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".md":    "Markdown",
	".tf":    "Terraform",
	".proto": "Protobuf",
}

// DetectLanguage infiere el lenguaje por extensión; los agentes lo usan
// para afinar el prompt. Extensiones desconocidas retornan vacío.
func DetectLanguage(path string) string {
	return languageByExtension[strings.ToLower(filepath.Ext(path))]
}
