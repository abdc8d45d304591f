package wizard

import "github.com/steinwurf/wafconf/internal/prompt"

// Settings holds answers that are asked at most once per run. Values
// coming from the override file count as already answered.
type Settings struct {
	sdk, ndk       string
	sdkSet, ndkSet bool
}

// NewSettings seeds the Android directories; empty means unknown.
func NewSettings(androidSDKDir, androidNDKDir string) *Settings {
	return &Settings{
		sdk:    androidSDKDir,
		sdkSet: androidSDKDir != "",
		ndk:    androidNDKDir,
		ndkSet: androidNDKDir != "",
	}
}

// AndroidSDKDir returns the SDK directory, asking p the first time.
// An empty answer is remembered too.
func (s *Settings) AndroidSDKDir(p prompt.Prompter) (string, error) {
	return ask(p, "Enter android_sdk_dir", &s.sdk, &s.sdkSet)
}

// AndroidNDKDir returns the NDK directory, asking p the first time.
func (s *Settings) AndroidNDKDir(p prompt.Prompter) (string, error) {
	return ask(p, "Enter android_ndk_dir", &s.ndk, &s.ndkSet)
}

func ask(p prompt.Prompter, question string, value *string, set *bool) (string, error) {
	if *set {
		return *value, nil
	}
	answer, err := p.Input(question, "")
	if err != nil {
		return "", err
	}
	*value, *set = answer, true
	return answer, nil
}
