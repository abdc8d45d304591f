// Package mkspec holds the catalog of waf compiler specifications (mkspecs)
// offered per host platform.
package mkspec

import (
	"sort"
	"strings"
)

// Default is always the first menu entry.
const Default = "cxx_default"

// Family names.
const (
	FamilyAndroid = "android"
	FamilyMSVC    = "msvc"
	FamilyGXX     = "gxx"
	FamilyCross   = "cross"
	FamilyClang   = "clang"
	FamilyLLVM    = "llvm"
	FamilyIOS     = "ios"
)

var families = map[string][]string{
	FamilyAndroid: {
		"cxx_android_gxx49_arm",
		"cxx_android_gxx49_armv7",
		"cxx_android5_gxx49_armv7",
	},
	FamilyMSVC: {
		"cxx_msvc14_x86",
		"cxx_msvc14_x64",
	},
	FamilyGXX: gxx("48", "49", "52", "53", "54", "61", "62", "63"),
	FamilyCross: {
		"cxx_openwrt_gxx53_arm",
		"cxx_openwrt_gxx53_mips",
		"cxx_raspberry_gxx49_arm",
		"cxx_raspberry_gxx49_armv7",
	},
	FamilyClang: {
		"cxx_clang38_x86",
		"cxx_clang38_x64",
		"cxx_clang39_x86",
		"cxx_clang39_x64",
		"cxx_clang38_address_sanitizer_x64",
		"cxx_clang38_memory_sanitizer_x64",
		"cxx_clang38_thread_sanitizer_x64",
	},
	FamilyLLVM: {
		"cxx_apple_llvm80_x64",
	},
	FamilyIOS: {
		"cxx_ios70_apple_llvm_armv7",
		"cxx_ios70_apple_llvm_armv7s",
		"cxx_ios70_apple_llvm_arm64",
		"cxx_ios70_apple_llvm_i386",
		"cxx_ios70_apple_llvm_x86_64",
	},
}

// platforms lists the families offered on each GOOS, in menu order.
var platforms = map[string][]string{
	"windows": {FamilyMSVC, FamilyAndroid},
	"linux":   {FamilyGXX, FamilyClang, FamilyAndroid, FamilyCross},
	"darwin":  {FamilyLLVM, FamilyAndroid, FamilyIOS},
}

func gxx(versions ...string) []string {
	out := make([]string, 0, 2*len(versions))
	for _, v := range versions {
		out = append(out, "cxx_gxx"+v+"_x86", "cxx_gxx"+v+"_x64")
	}
	return out
}

// ForPlatform returns the mkspec menu for goos, starting with Default.
// The second result is false for unsupported platforms.
func ForPlatform(goos string) ([]string, bool) {
	fams, ok := platforms[goos]
	if !ok {
		return nil, false
	}
	out := []string{Default}
	for _, f := range fams {
		out = append(out, families[f]...)
	}
	return out, true
}

// Platforms returns the supported GOOS values, sorted.
func Platforms() []string {
	out := make([]string, 0, len(platforms))
	for p := range platforms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Family returns the family of a catalogued mkspec, or "" when unknown
// (including Default).
func Family(name string) string {
	for fam, specs := range families {
		for _, s := range specs {
			if s == name {
				return fam
			}
		}
	}
	return ""
}

// IsAndroid reports whether name targets Android and therefore needs the
// SDK and NDK directories.
func IsAndroid(name string) bool {
	return strings.HasPrefix(name, "cxx_android")
}
