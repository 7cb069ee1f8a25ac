package isa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTestInfo builds a small topology: a 32-unit "x" bank with a
// top-level GPR class and an 8-register subclass, and a 32-unit "f"
// bank with a single top-level class.
func buildTestInfo(t *testing.T) (*RegInfo, RegClassIndex, RegClassIndex, RegClassIndex) {
	t.Helper()
	var b Builder
	x := b.AddBank(BankSpec{Name: "IntRegs", Prefix: "x", Units: 32, Names: []string{"zero", "ra", "sp", "gp", "tp"}})
	f := b.AddBank(BankSpec{Name: "FloatRegs", Prefix: "f", Units: 32})
	gpr := b.AddClass(ClassSpec{Name: "GPR", Bank: x, Parent: RegClassIndexInvalid, Count: 32})
	gprc := b.AddClass(ClassSpec{Name: "GPRC", Bank: x, Parent: gpr, Count: 8, Start: 8})
	fpr := b.AddClass(ClassSpec{Name: "FPR", Bank: f, Parent: RegClassIndexInvalid, Count: 32})
	return b.Finish(), gpr, gprc, fpr
}

func TestBuilder_bankPacking(t *testing.T) {
	var b Builder
	b.AddBank(BankSpec{Name: "a", Units: 12})
	b.AddBank(BankSpec{Name: "b", Units: 10})
	b.AddBank(BankSpec{Name: "c", Units: 3})
	info := b.Info()

	// Each bank starts at the next multiple of its own unit count
	// rounded up to a power of two: 12 -> align 16, 10 -> align 16,
	// 3 -> align 4.
	require.Equal(t, RegUnit(0), info.Banks[0].FirstUnit)
	require.Equal(t, RegUnit(16), info.Banks[1].FirstUnit)
	require.Equal(t, RegUnit(28), info.Banks[2].FirstUnit)
}

func TestRegInfo_lattice(t *testing.T) {
	info, gpr, gprc, fpr := buildTestInfo(t)

	require.True(t, info.RC(gpr).HasSubclass(gprc))
	require.True(t, info.RC(gpr).HasSubclass(gpr))
	require.False(t, info.RC(gprc).HasSubclass(gpr))
	require.False(t, info.RC(gpr).HasSubclass(fpr))
	require.Equal(t, gpr, info.RC(gprc).TopRC)

	rc, ok := info.Intersect(gpr, gprc)
	require.True(t, ok)
	require.Equal(t, gprc, rc)
	rc, ok = info.Intersect(gprc, gprc)
	require.True(t, ok)
	require.Equal(t, gprc, rc)
	_, ok = info.Intersect(gpr, fpr)
	require.False(t, ok)

	require.True(t, info.ClassContains(gprc, 8))
	require.True(t, info.ClassContains(gprc, 15))
	require.False(t, info.ClassContains(gprc, 7))
	require.False(t, info.ClassContains(gprc, 16))
	require.True(t, info.ClassContains(gpr, 0))

	// The f bank is packed at unit 32.
	require.True(t, info.ClassContains(fpr, 32))
	require.False(t, info.ClassContains(fpr, 31))

	require.Equal(t, "zero", info.DisplayRegUnit(0))
	require.Equal(t, "sp", info.DisplayRegUnit(2))
	require.Equal(t, "x8", info.DisplayRegUnit(8))
	require.Equal(t, "f0", info.DisplayRegUnit(32))
}

func TestRegClass_Mask(t *testing.T) {
	info, gpr, gprc, _ := buildTestInfo(t)
	bank := &info.Banks[info.RC(gpr).Bank]

	mGPR := info.RC(gpr).Mask(bank.FirstUnit)
	require.Equal(t, RegClassMask{0xffffffff, 0, 0}, mGPR)
	mGPRC := info.RC(gprc).Mask(bank.FirstUnit)
	require.Equal(t, RegClassMask{0x0000ff00, 0, 0}, mGPRC)

	require.Equal(t, mGPRC, mGPR.Intersect(mGPRC))
	require.False(t, mGPRC.IsEmpty())
	require.True(t, RegClassMask{}.IsEmpty())
}

func TestRegInfo_Check(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		info, _, _, _ := buildTestInfo(t)
		require.NoError(t, info.Check())
	})

	t.Run("undeclared subclass", func(t *testing.T) {
		var b Builder
		x := b.AddBank(BankSpec{Name: "x", Prefix: "x", Units: 16})
		b.AddClass(ClassSpec{Name: "A", Bank: x, Parent: RegClassIndexInvalid, Count: 16})
		// Same units as a subclass of A would have, but declared as an
		// independent top-level class.
		b.AddClass(ClassSpec{Name: "B", Bank: x, Parent: RegClassIndexInvalid, Count: 8, Start: 8})
		err := b.Info().Check()
		require.ErrorContains(t, err, "B should be a subclass of A")
	})

	t.Run("duplicate class", func(t *testing.T) {
		var b Builder
		x := b.AddBank(BankSpec{Name: "x", Prefix: "x", Units: 16})
		a := b.AddClass(ClassSpec{Name: "A", Bank: x, Parent: RegClassIndexInvalid, Count: 16})
		b.AddClass(ClassSpec{Name: "B", Bank: x, Parent: a, Count: 8, Start: 8})
		b.AddClass(ClassSpec{Name: "C", Bank: x, Parent: a, Count: 8, Start: 8})
		err := b.Info().Check()
		require.ErrorContains(t, err, "duplicate register classes B and C")
	})

	t.Run("intersection is not a class", func(t *testing.T) {
		var b Builder
		x := b.AddBank(BankSpec{Name: "x", Prefix: "x", Units: 16})
		// A = {0,2,4,6}, B = {4,6,8,10}: they intersect in {4,6} which
		// is not in the class set.
		b.AddClass(ClassSpec{Name: "A", Bank: x, Parent: RegClassIndexInvalid, Width: 2, Count: 4})
		b.AddClass(ClassSpec{Name: "B", Bank: x, Parent: RegClassIndexInvalid, Width: 2, Count: 4, Start: 4})
		err := b.Info().Check()
		require.ErrorContains(t, err, "intersection of A and B is not a register class")
	})

	t.Run("finish panics on malformed table", func(t *testing.T) {
		var b Builder
		x := b.AddBank(BankSpec{Name: "x", Prefix: "x", Units: 16})
		b.AddClass(ClassSpec{Name: "A", Bank: x, Parent: RegClassIndexInvalid, Count: 16})
		b.AddClass(ClassSpec{Name: "B", Bank: x, Parent: RegClassIndexInvalid, Count: 8, Start: 8})
		require.Panics(t, func() { b.Finish() })
	})
}

func TestEncoding(t *testing.T) {
	require.False(t, EncodingIllegal.IsLegal())
	require.True(t, Encoding{Recipe: 0, Bits: 0x0c}.IsLegal())

	ei := &EncInfo{
		Constraints: []RecipeConstraints{{}},
		Sizing:      []RecipeSizing{{BaseSize: 4, BranchRange: BranchRange{InstSize: 0, Bits: 13}}},
		Names:       []string{"SB"},
	}
	enc := Encoding{Recipe: 0, Bits: 0x63}
	require.Equal(t, "SB#63", ei.DisplayEnc(enc))
	require.Equal(t, "-", ei.DisplayEnc(EncodingIllegal))

	br, ok := ei.BranchRange(enc)
	require.True(t, ok)
	org := uint32(0x1000)
	require.True(t, br.Contains(org, org-4096))
	require.True(t, br.Contains(org, org+4094))
	require.False(t, br.Contains(org, org-4098))
	require.False(t, br.Contains(org, org+4096))
	_, ok = ei.BranchRange(EncodingIllegal)
	require.False(t, ok)

	require.Equal(t, uint8(4), ei.ByteSize(enc, 0, nil, nil))
}

func TestValueLoc(t *testing.T) {
	info, _, _, _ := buildTestInfo(t)
	require.Equal(t, "sp", RegLoc(2).Display(info))
	require.Equal(t, "ss3", StackLoc(3).Display(info))
	require.Equal(t, "-", ValueLoc{}.Display(info))
}
