package zbd

import (
	"fmt"
	"io"

	"github.com/mechres/zbd/anim"
	"github.com/mechres/zbd/archive"
	"github.com/mechres/zbd/compress"
	"github.com/mechres/zbd/gamez"
	"github.com/mechres/zbd/motion"
	"github.com/mechres/zbd/nf"
	"github.com/mechres/zbd/texture"
)

// Extract/Restore pairs connect the codecs to the neutral-form sink: an
// Extract reads a game file and persists the neutral records; a Restore
// loads them and writes the game file back. Restore(Extract(F)) == F
// byte-for-byte for every file the codec accepts.

// Record names inside a sink, one per file kind.
const (
	recordGameZ    = "gamez.json"
	recordTextures = "textures.json"
	recordMotion   = "motion.json"
	recordAnimDef  = "anim_def.json"
	recordArchive  = "archive.json"
)

func restoreRecord(r io.Reader, expected string, v any) error {
	sink, err := nf.NewReader(r)
	if err != nil {
		return err
	}
	name, err := sink.ReadRecord(v)
	if err != nil {
		return err
	}
	if name != expected {
		return fmt.Errorf("expected record %q, but was %q", expected, name)
	}
	return nil
}

func extractRecord(w io.Writer, compression compress.Type, name string, v any) error {
	sink, err := nf.NewWriter(w, compression)
	if err != nil {
		return err
	}
	if err := sink.WriteRecord(name, v); err != nil {
		return err
	}
	return sink.Close()
}

// ExtractGameZ reads a scene file and persists it as neutral records.
func ExtractGameZ(r io.Reader, w io.Writer, compression compress.Type) error {
	g, err := ReadGameZ(r)
	if err != nil {
		return err
	}
	return extractRecord(w, compression, recordGameZ, g)
}

// RestoreGameZ writes a scene file back from neutral records.
func RestoreGameZ(r io.Reader, w io.Writer) error {
	var g gamez.GameZ
	if err := restoreRecord(r, recordGameZ, &g); err != nil {
		return err
	}
	return WriteGameZ(w, &g)
}

// ExtractTextures reads a texture container and persists it as neutral
// records.
func ExtractTextures(r io.Reader, w io.Writer, compression compress.Type) error {
	manifest, err := ReadTextures(r)
	if err != nil {
		return err
	}
	return extractRecord(w, compression, recordTextures, manifest)
}

// RestoreTextures writes a texture container back from neutral records.
func RestoreTextures(r io.Reader, w io.Writer) error {
	var manifest texture.Manifest
	if err := restoreRecord(r, recordTextures, &manifest); err != nil {
		return err
	}
	return WriteTextures(w, &manifest)
}

// ExtractMotion reads a motion file and persists it as neutral records.
func ExtractMotion(r io.Reader, w io.Writer, compression compress.Type) error {
	m, err := ReadMotion(r)
	if err != nil {
		return err
	}
	return extractRecord(w, compression, recordMotion, m)
}

// RestoreMotion writes a motion file back from neutral records.
func RestoreMotion(r io.Reader, w io.Writer) error {
	var m motion.Motion
	if err := restoreRecord(r, recordMotion, &m); err != nil {
		return err
	}
	return WriteMotion(w, &m)
}

// animDefRecord bundles a definition with its preserved pointers so one
// record restores both.
type animDefRecord struct {
	Def  *anim.AnimDef `json:"def"`
	Ptrs *anim.AnimPtr `json:"ptrs"`
}

// ExtractAnimDef reads one animation definition and persists it as
// neutral records.
func ExtractAnimDef(r io.Reader, w io.Writer, compression compress.Type) error {
	def, ptrs, err := ReadAnimDef(r)
	if err != nil {
		return err
	}
	return extractRecord(w, compression, recordAnimDef, animDefRecord{Def: def, Ptrs: ptrs})
}

// RestoreAnimDef writes one animation definition back from neutral
// records.
func RestoreAnimDef(r io.Reader, w io.Writer) error {
	var record animDefRecord
	if err := restoreRecord(r, recordAnimDef, &record); err != nil {
		return err
	}
	return WriteAnimDef(w, record.Def, record.Ptrs)
}

// ExtractArchive reads a file bundle and persists it as neutral records:
// the entry table as JSON plus one raw record per archived file.
func ExtractArchive(r io.Reader, w io.Writer, compression compress.Type) error {
	sink, err := nf.NewWriter(w, compression)
	if err != nil {
		return err
	}
	entries, err := ReadArchive(r, func(name string, content []byte) error {
		return sink.WriteRawRecord(name, content)
	})
	if err != nil {
		return err
	}
	if err := sink.WriteRecord(recordArchive, entries); err != nil {
		return err
	}
	return sink.Close()
}

// RestoreArchive writes a file bundle back from neutral records.
func RestoreArchive(r io.Reader, w io.Writer) error {
	sink, err := nf.NewReader(r)
	if err != nil {
		return err
	}
	contents := make(map[string][]byte)
	var entries []archive.Entry
	for {
		name, data, err := sink.NextRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if name == recordArchive {
			if err := nf.Unmarshal(data, &entries); err != nil {
				return err
			}
			continue
		}
		contents[name] = data
	}
	if entries == nil {
		return fmt.Errorf("expected record %q, but the sink has none", recordArchive)
	}
	return WriteArchive(w, entries, func(name string) ([]byte, error) {
		content, ok := contents[name]
		if !ok {
			return nil, fmt.Errorf("expected archived file %q in the sink", name)
		}
		return content, nil
	})
}
