package descriptor

// Compare decides whether installation work is required. It returns
// AlreadyInstalled only when both archive names are set and equal byte for
// byte.
func Compare(desired, installed *Descriptor) State {
	if desired == nil || installed == nil {
		return NeedsInstall
	}
	if desired.ArchiveFileName == "" || installed.InstalledArchiveFileName == "" {
		return NeedsInstall
	}
	if desired.ArchiveFileName != installed.InstalledArchiveFileName {
		return NeedsInstall
	}
	return AlreadyInstalled
}
