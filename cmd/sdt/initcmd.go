package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skin-community/skin-dev-tools/internal/logger"
)

var initCmd = &cobra.Command{
	Use:   "init <addon-id>",
	Short: "Scaffold a minimal skin addon",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	addonID := args[0]

	for _, dir := range []string{"720p", "colors", filepath.Join("resources", "language", "English")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	files := map[string]string{
		"addon.xml": `<?xml version="1.0" encoding="UTF-8"?>
<addon id="` + addonID + `" version="0.1.0" name="` + addonID + `" provider-name="">
	<extension point="xbmc.gui.skin">
		<res width="1280" height="720" aspect="16:9" default="true" folder="720p" />
	</extension>
	<extension point="xbmc.addon.metadata">
		<summary lang="en_GB">A new skin</summary>
	</extension>
</addon>
`,
		filepath.Join("720p", "Includes.xml"): `<?xml version="1.0" encoding="UTF-8"?>
<includes>
	<include name="DefaultBackground">
		<control type="image">
			<width>1280</width>
			<height>720</height>
			<texture>background.png</texture>
		</control>
	</include>
</includes>
`,
		filepath.Join("720p", "Font.xml"): `<?xml version="1.0" encoding="UTF-8"?>
<fonts>
	<fontset id="Default" idloc="31000" unicode="true">
		<font>
			<name>font13</name>
			<filename>DejaVuSans.ttf</filename>
			<size>20</size>
		</font>
	</fontset>
</fonts>
`,
		filepath.Join("720p", "Home.xml"): `<?xml version="1.0" encoding="UTF-8"?>
<window>
	<defaultcontrol>1</defaultcontrol>
	<controls>
		<include>DefaultBackground</include>
		<control type="label" id="1">
			<font>font13</font>
			<label>31000</label>
		</control>
	</controls>
</window>
`,
		filepath.Join("colors", "defaults.xml"): `<?xml version="1.0" encoding="UTF-8"?>
<colors>
	<color name="white">FFFFFFFF</color>
	<color name="black">FF000000</color>
</colors>
`,
		filepath.Join("resources", "language", "English", "strings.po"): `msgid ""
msgstr ""
"Content-Type: text/plain; charset=utf-8\n"

msgctxt "#31000"
msgid "Default"
msgstr ""
`,
		".skin_rules.cue": `package schema

// Project-specific rule overlay; entries here extend the built-in
// tables.
containers: {}
`,
	}

	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
		logger.Printf("created %s\n", path)
	}

	logger.Printf("skin '%s' initialized successfully\n", addonID)
	return nil
}
