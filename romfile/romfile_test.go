package romfile_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/romfile"
	hosttest "github.com/dargueta/snowhost/testing"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZIP(t *testing.T, files map[string][]byte, dirs ...string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for _, dir := range dirs {
		_, err := w.Create(dir + "/")
		require.NoError(t, err)
	}
	for name, data := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeGzip(t *testing.T, data []byte) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDetectContainer(t *testing.T) {
	cases := map[string]romfile.Container{
		"PK\x03\x04rest":           romfile.ContainerZIP,
		"PK\x05\x06rest":           romfile.ContainerZIP,
		"7z\xbc\xaf\x27\x1c\x00":   romfile.Container7z,
		"\x1f\x8b\x08":             romfile.ContainerGzip,
		"Rar!\x1a\x07\x01\x00":     romfile.ContainerRAR,
		"\x4e\xfa\x00\x2a\x00\x00": romfile.ContainerRaw,
		"":                         romfile.ContainerRaw,
	}
	for header, expected := range cases {
		assert.Equalf(t, expected, romfile.DetectContainer([]byte(header)), "header %q", header)
	}
}

func TestLoad__Raw(t *testing.T) {
	fs := afero.NewMemMapFs()
	rom := hosttest.CreateRandomImage(1024, 256, t)
	require.NoError(t, afero.WriteFile(fs, "/roms/plus.rom", rom, 0o644))

	data, err := romfile.Load(fs, "/roms/plus.rom")
	require.NoError(t, err)
	assert.Equal(t, rom, data)
}

func TestLoad__Missing(t *testing.T) {
	_, err := romfile.Load(afero.NewMemMapFs(), "/roms/nope.rom")
	assert.ErrorContains(t, err, "Cannot open ROM /roms/nope.rom")
}

func TestLoad__TooLarge(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "big.rom", make([]byte, romfile.MaxROMSize+1), 0o644))

	_, err := romfile.Load(fs, "big.rom")
	assert.ErrorIs(t, err, romfile.ErrFileTooLarge)
	assert.ErrorIs(t, err, snowhost.ErrInvalidArgument)
}

func TestLoad__ExactlyMaxSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "max.rom", make([]byte, romfile.MaxROMSize), 0o644))

	data, err := romfile.Load(fs, "max.rom")
	require.NoError(t, err)
	assert.Len(t, data, romfile.MaxROMSize)
}

func TestLoad__ZIP(t *testing.T) {
	fs := afero.NewMemMapFs()
	rom := hosttest.CreateRandomImage(512, 64, t)
	archive := writeZIP(t, map[string][]byte{"se30.rom": rom}, "docs")
	require.NoError(t, afero.WriteFile(fs, "se30.zip", archive, 0o644))

	data, err := romfile.Load(fs, "se30.zip")
	require.NoError(t, err)
	assert.Equal(t, rom, data)
}

func TestLoad__EmptyZIP(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "empty.zip", writeZIP(t, nil), 0o644))

	_, err := romfile.Load(fs, "empty.zip")
	assert.ErrorIs(t, err, romfile.ErrNoROMFile)
	assert.ErrorIs(t, err, snowhost.ErrNotFound)
}

func TestLoad__ZIPWithOnlyDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dirs.zip", writeZIP(t, nil, "a", "b"), 0o644))

	_, err := romfile.Load(fs, "dirs.zip")
	assert.ErrorIs(t, err, romfile.ErrNoROMFile)
}

func TestLoad__Gzip(t *testing.T) {
	fs := afero.NewMemMapFs()
	rom := hosttest.CreateRandomImage(512, 32, t)
	require.NoError(t, afero.WriteFile(fs, "classic.rom.gz", writeGzip(t, rom), 0o644))

	data, err := romfile.Load(fs, "classic.rom.gz")
	require.NoError(t, err)
	assert.Equal(t, rom, data)
}

func TestLoad__CorruptArchives(t *testing.T) {
	fs := afero.NewMemMapFs()
	garbage := bytes.Repeat([]byte{0xA5}, 64)

	files := map[string][]byte{
		"bad.7z":  append([]byte("7z\xbc\xaf\x27\x1c"), garbage...),
		"bad.rar": append([]byte("Rar!\x1a\x07\x01\x00"), garbage...),
		"bad.gz":  append([]byte{0x1f, 0x8b}, garbage...),
		"bad.zip": append([]byte("PK\x03\x04"), garbage...),
	}
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
		_, err := romfile.Load(fs, name)
		assert.Errorf(t, err, "%s loaded without error", name)
	}
}
