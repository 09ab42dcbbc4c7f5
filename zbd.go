// Package zbd converts the binary asset formats of a classic 3D mech
// combat game to and from a neutral, structured representation. The codecs
// guarantee byte-exact round-trips: for every file the reader accepts,
// writing the result back produces an identical copy.
//
// The codec surface is a library of Read/Write pairs, one per top-level
// file kind, each operating on an iox counting stream:
//
//   - anim:     animation definitions and their event sequences
//   - gamez:    scene files (textures + materials + meshes + nodes)
//   - mechlib:  model libraries with embedded meshes
//   - texture:  texture containers with palette and alpha handling
//   - archive:  trailer-indexed file bundles
//   - interp:   interpreter script bundles
//   - motion:   skeletal motion files
//   - messages: message DLL extraction
//
// Several formats exist in multiple game-version variants (MW, PM, CS,
// RC); the caller selects the variant, nothing is auto-detected. All
// reads and writes are strictly sequential and single-threaded; errors
// abort the file with an offset-attributed message.
//
// The Extract/Restore pairs combine both directions with persistence:
// neutral records serialize to JSON and land in the nf record sink, which
// compresses payloads with the codecs in package compress, and
// Restore(Extract(F)) reproduces F byte-for-byte.
package zbd

import (
	"io"

	"github.com/mechres/zbd/anim"
	"github.com/mechres/zbd/archive"
	"github.com/mechres/zbd/gamez"
	"github.com/mechres/zbd/interp"
	"github.com/mechres/zbd/iox"
	"github.com/mechres/zbd/mechlib"
	"github.com/mechres/zbd/messages"
	"github.com/mechres/zbd/motion"
	"github.com/mechres/zbd/nodes"
	"github.com/mechres/zbd/texture"
)

// ReadAnimDef reads one animation definition with its side tables, reset
// state and sequences, returning the preserved pointer values alongside.
func ReadAnimDef(r io.Reader) (*anim.AnimDef, *anim.AnimPtr, error) {
	return anim.ReadAnimDef(iox.NewReader(r))
}

// WriteAnimDef writes one animation definition.
func WriteAnimDef(w io.Writer, def *anim.AnimDef, ptrs *anim.AnimPtr) error {
	return anim.WriteAnimDef(iox.NewWriter(w), def, ptrs)
}

// ReadGameZ reads a scene file.
func ReadGameZ(r io.Reader) (*gamez.GameZ, error) {
	return gamez.ReadGameZ(iox.NewReader(r))
}

// WriteGameZ writes a scene file.
func WriteGameZ(w io.Writer, g *gamez.GameZ) error {
	return gamez.WriteGameZ(iox.NewWriter(w), g)
}

// ReadModel reads a mechlib model.
func ReadModel(r io.Reader, variant nodes.Variant) (*mechlib.Model, error) {
	return mechlib.ReadModel(iox.NewReader(r), variant)
}

// WriteModel writes a mechlib model.
func WriteModel(w io.Writer, variant nodes.Variant, model *mechlib.Model) error {
	return mechlib.WriteModel(iox.NewWriter(w), variant, model)
}

// ReadTextures reads a texture container.
func ReadTextures(r io.Reader) (*texture.Manifest, error) {
	return texture.ReadTextures(iox.NewReader(r))
}

// WriteTextures writes a texture container.
func WriteTextures(w io.Writer, manifest *texture.Manifest) error {
	return texture.WriteTextures(iox.NewWriter(w), manifest)
}

// ReadArchive reads a file bundle, passing each file to saveFile.
func ReadArchive(r io.Reader, saveFile func(name string, content []byte) error) ([]archive.Entry, error) {
	return archive.ReadArchiveFrom(r, saveFile)
}

// WriteArchive writes a file bundle, pulling contents from loadFile.
func WriteArchive(w io.Writer, entries []archive.Entry, loadFile func(name string) ([]byte, error)) error {
	return archive.WriteArchive(iox.NewWriter(w), entries, loadFile)
}

// ReadInterp reads a script bundle.
func ReadInterp(r io.Reader) ([]interp.Script, error) {
	return interp.ReadInterp(iox.NewReader(r))
}

// WriteInterp writes a script bundle.
func WriteInterp(w io.Writer, scripts []interp.Script) error {
	return interp.WriteInterp(iox.NewWriter(w), scripts)
}

// ReadMotion reads a motion file.
func ReadMotion(r io.Reader) (*motion.Motion, error) {
	return motion.ReadMotion(iox.NewReader(r))
}

// WriteMotion writes a motion file.
func WriteMotion(w io.Writer, m *motion.Motion) error {
	return motion.WriteMotion(iox.NewWriter(w), m)
}

// ReadMessages extracts the message definitions from a message DLL.
func ReadMessages(r io.Reader) ([]messages.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return messages.ReadMessages(data)
}
