package release

// Platform describes a supported package-manager family.
type Platform struct {
	// Name is the human-readable family name.
	Name string
	// File is the package filename published for this family.
	File string
	// InstallCommand is the package manager invocation; the artifact path is appended.
	InstallCommand []string
	// ProbeCommand exits with zero status only when the family's package manager is present.
	ProbeCommand []string
	// Distro holds optional host diagnostics, filled after detection.
	Distro *Distro
}

// Distro is diagnostic information about the host Linux distribution.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// Platforms returns the supported families in probe order.
func Platforms() []Platform {
	return []Platform{
		{
			Name:           "Debian",
			File:           "atom-amd64.deb",
			InstallCommand: []string{"dpkg", "-i"},
			ProbeCommand:   []string{"/usr/bin/dpkg", "-S", "/usr/bin/dpkg"},
		},
		{
			Name:           "RPM",
			File:           "atom.x86_64.rpm",
			InstallCommand: []string{"rpm", "-Uvh"},
			ProbeCommand:   []string{"/usr/bin/rpm", "-q", "-f", "/usr/bin/rpm"},
		},
	}
}

// Clone returns a copy that does not share slices with the receiver.
func (p *Platform) Clone() *Platform {
	if p == nil {
		return nil
	}

	cloned := *p
	cloned.InstallCommand = append([]string(nil), p.InstallCommand...)
	cloned.ProbeCommand = append([]string(nil), p.ProbeCommand...)

	if p.Distro != nil {
		distro := *p.Distro
		cloned.Distro = &distro
	}

	return &cloned
}
