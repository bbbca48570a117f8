package app

import (
	"github.com/All1eexx/ApkForge/internal/registry"
	"github.com/All1eexx/ApkForge/modules/abifilter"
	"github.com/All1eexx/ApkForge/modules/filecleaner"
	"github.com/All1eexx/ApkForge/modules/sdkdetector"
	"github.com/All1eexx/ApkForge/modules/yamlupdater"
)

// coreModules is the default set of step modules compiled into the binary.
var coreModules = []registry.Registrar{
	&abifilter.Module{},
	&filecleaner.Module{},
	&sdkdetector.Module{},
	&yamlupdater.Module{},
}
