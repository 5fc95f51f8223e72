package models

// Side indica de qué lado del diff vive una línea.
type Side string

const (
	SideOld Side = "old"
	SideNew Side = "new"
)

// ChangeKind clasifica el cambio que sufrió un archivo dentro del diff.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
)

// LineKind clasifica una línea dentro de un hunk.
type LineKind string

const (
	LineContext LineKind = "context"
	LineAdded   LineKind = "added"
	LineRemoved LineKind = "removed"
)

type (
	// DiffPosition es la unidad direccionable a la que debe resolver
	// todo Finding: (archivo, lado, número de línea).
	DiffPosition struct {
		Path string
		Side Side
		Line int
	}

	// Line es una línea de un hunk con su numeración original en ambos lados.
	// OldNumber es 0 para líneas agregadas y NewNumber es 0 para eliminadas.
	Line struct {
		Kind      LineKind
		Content   string
		OldNumber int
		NewNumber int
	}

	// Hunk es un bloque contiguo de cambios dentro de un archivo.
	Hunk struct {
		OldStart int
		OldCount int
		NewStart int
		NewCount int
		Lines    []Line
	}

	// FileChange es un archivo del diff con sus hunks ordenados.
	// OldPath solo está presente cuando Kind es ChangeRenamed.
	FileChange struct {
		Path     string
		OldPath  string
		Kind     ChangeKind
		Binary   bool
		Language string
		Hunks    []Hunk
	}

	// DiffModel es la representación estructurada de un diff completo.
	// Es entrada de solo lectura del pipeline; el caller conserva la propiedad.
	DiffModel struct {
		Files []FileChange
	}
)

// PositionSet es el conjunto de posiciones direccionables de un diff.
type PositionSet map[DiffPosition]struct{}

// Contains reporta si la posición existe en el diff de origen.
func (s PositionSet) Contains(pos DiffPosition) bool {
	_, ok := s[pos]
	return ok
}

// Positions enumera todas las posiciones direccionables del diff:
// las líneas de contexto existen en ambos lados, las agregadas solo en el
// nuevo y las eliminadas solo en el viejo.
func (d *DiffModel) Positions() PositionSet {
	set := make(PositionSet)
	for _, file := range d.Files {
		for _, hunk := range file.Hunks {
			for _, line := range hunk.Lines {
				switch line.Kind {
				case LineContext:
					set[DiffPosition{Path: file.Path, Side: SideOld, Line: line.OldNumber}] = struct{}{}
					set[DiffPosition{Path: file.Path, Side: SideNew, Line: line.NewNumber}] = struct{}{}
				case LineAdded:
					set[DiffPosition{Path: file.Path, Side: SideNew, Line: line.NewNumber}] = struct{}{}
				case LineRemoved:
					set[DiffPosition{Path: file.Path, Side: SideOld, Line: line.OldNumber}] = struct{}{}
				}
			}
		}
	}
	return set
}

// File busca un archivo por su path actual.
func (d *DiffModel) File(path string) (FileChange, bool) {
	for _, file := range d.Files {
		if file.Path == path {
			return file, true
		}
	}
	return FileChange{}, false
}

// ChangedLines cuenta las líneas agregadas y eliminadas del archivo.
func (f *FileChange) ChangedLines() (added, removed int) {
	for _, hunk := range f.Hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

// TotalChangedLines suma las líneas cambiadas de todos los archivos.
func (d *DiffModel) TotalChangedLines() int {
	total := 0
	for i := range d.Files {
		added, removed := d.Files[i].ChangedLines()
		total += added + removed
	}
	return total
}
