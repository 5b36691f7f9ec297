package cellhasher

// Environment variable names shared by the Cellhasher host app and the
// commands in cmd/. Cellhasher exports adb_path and devices before it runs
// any script; the rest are optional operator overrides.
const (
	// EnvAdbPath points at the adb executable used for every bridge call.
	EnvAdbPath = "adb_path"
	// EnvDevices holds the whitespace-separated serials of the selected devices.
	EnvDevices = "devices"
	// EnvAdbTimeout optionally bounds each adb invocation (Go duration
	// syntax). Zero or unset means no timeout.
	EnvAdbTimeout = "ADB_TIMEOUT"
	// EnvTermuxPassword carries the SSH password injected into the Termux
	// provisioning script. Never logged in the clear.
	EnvTermuxPassword = "TERMUX_SSH_PASSWORD"
	// EnvRunHistoryDB optionally points at a sqlite file that receives one
	// row per fleet run plus per-device outcomes.
	EnvRunHistoryDB = "RUN_HISTORY_DB"
	// EnvReleaseEndpoint overrides the release listing endpoint.
	EnvReleaseEndpoint = "RELEASE_ENDPOINT"
)

const (
	// DefaultAdbPath is used when adb_path is unset; adb is resolved via PATH.
	DefaultAdbPath = "adb"
	// DefaultReleaseEndpoint lists the latest Acurast processor release.
	DefaultReleaseEndpoint = "https://api.github.com/repos/Acurast/acurast-processor-update/releases/latest"
	// AssetMarker selects the processor-lite APK among the release assets.
	AssetMarker = "processor-lite"
	// AssetExtension narrows asset selection to APK files.
	AssetExtension = ".apk"
)

// installSuccessMarker is the literal some adb builds print on a successful
// install even when the exit path looks nonzero.
const installSuccessMarker = "Success"
