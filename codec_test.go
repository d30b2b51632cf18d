package gringotts

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestRoundTripAllAlgorithms(t *testing.T) {
	key := testKey(t, "round trip")
	inputs := map[string][]byte{
		"empty":  {},
		"short":  []byte("abc"),
		"text":   bytes.Repeat([]byte("all work and no play. "), 64),
		"binary": {0x00, 0xff, 0x10, 0x80, 0x7f},
	}

	for _, algos := range allAlgorithms() {
		t.Run(algos.String(), func(t *testing.T) {
			ctx := testContext(t)
			if err := ctx.SetAlgorithms(algos); err != nil {
				t.Fatal(err)
			}
			for name, data := range inputs {
				frame, err := ctx.EncryptMem(key, data)
				if err != nil {
					t.Fatalf("%s: EncryptMem() error: %v", name, err)
				}
				got, err := ctx.DecryptMem(key, frame)
				if err != nil {
					t.Fatalf("%s: DecryptMem() error: %v", name, err)
				}
				if !bytes.Equal(got, data) {
					t.Fatalf("%s: round trip mismatch", name)
				}
			}
		})
	}
}

func TestFrameLayout(t *testing.T) {
	key := testKey(t, "layout")
	ctx := testContext(t)

	frame, err := ctx.EncryptMem(key, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(frame, []byte("TEST")) {
		t.Fatalf("frame does not start with header tag: %x", frame[:8])
	}
	if frame[4] != FormatVersion {
		t.Errorf("version byte = %d, want %d", frame[4], FormatVersion)
	}
	if frame[5] != ctx.Algorithms().Pack() {
		t.Errorf("algorithm byte = 0x%02x, want 0x%02x", frame[5], ctx.Algorithms().Pack())
	}

	h, err := ReadFrameHeader([]byte("TEST"), frame)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Validate(); err != nil {
		t.Errorf("header Validate() error: %v", err)
	}
	if len(h.IV) != 16 || len(h.MAC) != 32 {
		t.Errorf("IV/MAC sizes = %d/%d, want 16/32", len(h.IV), len(h.MAC))
	}

	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), frame[:h.Size()]) {
		t.Error("WriteTo does not reproduce the frame header")
	}
}

func TestFreshIVPerFrame(t *testing.T) {
	key := testKey(t, "iv")
	ctx := testContext(t)

	a, _ := ctx.EncryptMem(key, []byte("same input"))
	b, _ := ctx.EncryptMem(key, []byte("same input"))
	if bytes.Equal(a, b) {
		t.Error("two encodings of the same input are identical")
	}
}

func TestTamperDetection(t *testing.T) {
	key := testKey(t, "tamper")
	ctx := testContext(t)

	frame, err := ctx.EncryptMem(key, []byte("the vault is under the lake"))
	if err != nil {
		t.Fatal(err)
	}

	// every byte after the tag, version and selector is covered
	for i := len("TEST") + 2; i < len(frame); i++ {
		corrupted := append([]byte(nil), frame...)
		corrupted[i] ^= 0x01

		got, err := ctx.DecryptMem(key, corrupted)
		if !IsIntegrityError(err) {
			t.Fatalf("flip at %d: error = %v, want IntegrityError", i, err)
		}
		if got != nil {
			t.Fatalf("flip at %d: plaintext returned on failure", i)
		}
	}
}

func TestWrongKey(t *testing.T) {
	ctx := testContext(t)
	frame, err := ctx.EncryptMem(testKey(t, "right"), []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = ctx.DecryptMem(testKey(t, "wrong"), frame)
	if !IsIntegrityError(err) || !errors.Is(err, ErrIntegrity) {
		t.Errorf("wrong key error = %v, want IntegrityError", err)
	}
	if CodeOf(err) != CodeReadCRC {
		t.Errorf("CodeOf() = %d, want %d", CodeOf(err), CodeReadCRC)
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	key := testKey(t, "format")
	ctx := testContext(t)
	frame, err := ctx.EncryptMem(key, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}

	badVersion := append([]byte(nil), frame...)
	badVersion[4] = 9
	reserved := append([]byte(nil), frame...)
	reserved[5] |= 0x80
	badTag := append([]byte(nil), frame...)
	badTag[0] = 'X'

	tests := []struct {
		name     string
		frame    []byte
		sentinel error
	}{
		{"empty", nil, ErrTruncatedFrame},
		{"partial tag", []byte("TE"), ErrTruncatedFrame},
		{"wrong tag", badTag, ErrMagicMismatch},
		{"random bytes", []byte("not a frame at all, just text"), ErrMagicMismatch},
		{"tag only", []byte("TEST"), ErrTruncatedFrame},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"reserved bit", reserved, ErrUnsupportedAlgorithm},
		{"truncated body", frame[:20], ErrTruncatedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ctx.ValidateMem(tt.frame); !errors.Is(err, tt.sentinel) || !IsFormatError(err) {
				t.Errorf("ValidateMem() error = %v, want %v", err, tt.sentinel)
			}
			got, err := ctx.DecryptMem(key, tt.frame)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("DecryptMem() error = %v, want %v", err, tt.sentinel)
			}
			if got != nil {
				t.Error("plaintext returned on failure")
			}
		})
	}
}

func TestValidateDoesNotNeedKey(t *testing.T) {
	ctx := testContext(t)
	frame, err := ctx.EncryptMem(testKey(t, "k"), []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.ValidateMem(frame); err != nil {
		t.Errorf("ValidateMem() error: %v", err)
	}

	other, _ := NewDefaultContext([]byte("OTHER"))
	if err := other.ValidateMem(frame); !errors.Is(err, ErrMagicMismatch) {
		t.Errorf("ValidateMem() with other tag error = %v", err)
	}
}

func TestDecodeUsesFrameAlgorithms(t *testing.T) {
	key := testKey(t, "embedded")
	writer := testContext(t)
	if err := writer.SetAlgorithms(Algorithms{Cipher: CipherCAST5, Hash: HashSHA256, Comp: CompZstd, Level: LevelFast}); err != nil {
		t.Fatal(err)
	}
	frame, err := writer.EncryptMem(key, []byte("mixed algorithms"))
	if err != nil {
		t.Fatal(err)
	}

	reader := testContext(t)
	before := reader.Algorithms()
	got, err := reader.DecryptMem(key, frame)
	if err != nil {
		t.Fatalf("DecryptMem() error: %v", err)
	}
	if string(got) != "mixed algorithms" {
		t.Errorf("DecryptMem() = %q", got)
	}
	if reader.Algorithms() != before {
		t.Error("decoding must not change the context")
	}

	if err := reader.UpdateFromMem(frame); err != nil {
		t.Fatal(err)
	}
	if reader.Algorithms() != writer.Algorithms() {
		t.Errorf("UpdateFromMem() = %s, want %s", reader.Algorithms(), writer.Algorithms())
	}
}

func TestUpdateFromRejectsBadFrame(t *testing.T) {
	ctx := testContext(t)
	before := ctx.Algorithms()
	if err := ctx.UpdateFromMem([]byte("garbage")); err == nil {
		t.Error("expected error")
	}
	if ctx.Algorithms() != before {
		t.Error("failed update changed the context")
	}
}

func TestLevelNoneOverhead(t *testing.T) {
	key := testKey(t, "none")
	for _, c := range Ciphers() {
		ctx := testContext(t)
		ctx.SetCipher(c)
		ctx.SetLevel(LevelNone)

		data := bytes.Repeat([]byte{'a'}, 1000)
		frame, err := ctx.EncryptMem(key, data)
		if err != nil {
			t.Fatal(err)
		}
		overhead, _ := FrameOverhead(len("TEST"), ctx.Algorithms())
		if len(frame) != len(data)+overhead {
			t.Errorf("%s: frame size %d, want %d", c, len(frame), len(data)+overhead)
		}
	}
}

func TestIncompressibleData(t *testing.T) {
	key := testKey(t, "noise")
	noise := make([]byte, 64*1024)
	rand.Read(noise)

	for _, comp := range Compressors() {
		for _, level := range Levels() {
			ctx := testContext(t)
			ctx.SetComp(comp)
			ctx.SetLevel(level)

			frame, err := ctx.EncryptMem(key, noise)
			if err != nil {
				t.Fatalf("%s/%s: %v", comp, level, err)
			}
			got, err := ctx.DecryptMem(key, frame)
			if err != nil {
				t.Fatalf("%s/%s: %v", comp, level, err)
			}
			if !bytes.Equal(got, noise) {
				t.Fatalf("%s/%s: round trip mismatch", comp, level)
			}
		}
	}
}

func TestMaxSize(t *testing.T) {
	key := testKey(t, "budget")
	ctx := testContext(t)
	if err := ctx.SetMaxSize(16); err != nil {
		t.Fatal(err)
	}

	_, err := ctx.EncryptMem(key, make([]byte, 17))
	if !errors.Is(err, ErrDataTooLarge) || !IsResourceError(err) {
		t.Errorf("EncryptMem() error = %v, want ErrDataTooLarge", err)
	}

	big := testContext(t)
	frame, err := big.EncryptMem(key, make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.DecryptMem(key, frame); !errors.Is(err, ErrDataTooLarge) {
		t.Errorf("DecryptMem() error = %v, want ErrDataTooLarge", err)
	}

	if err := ctx.SetMaxSize(DefaultMaxSize + 1); !IsValidationError(err) {
		t.Errorf("SetMaxSize() over limit error = %v", err)
	}
}

func TestParanoidSecurity(t *testing.T) {
	key := testKey(t, "paranoid")
	ctx, err := NewContext([]byte("P"), CipherTwofish, HashBLAKE2b, CompZstd, LevelGood, SecurityParanoid)
	if err != nil {
		t.Fatal(err)
	}
	frame, err := ctx.EncryptMem(key, []byte("wiped twice"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := ctx.DecryptMem(key, frame)
	if err != nil || string(got) != "wiped twice" {
		t.Errorf("DecryptMem() = %q, %v", got, err)
	}
}
