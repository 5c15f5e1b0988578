// Package uinput forwards device actions to a Linux virtual input device
// via /dev/uinput, so macros act on the host the simulator runs on.
// Keyboard and mouse actions are supported; tone and audio playback have
// no uinput equivalent and are logged instead.
package uinput
