package alexa

import "fmt"

// Constructor builds a fresh Capability instance for attachment to an
// endpoint.
type Constructor func() Capability

// capabilityRegistry is the static interface-name -> constructor table. It
// is populated once at package init and never mutated afterwards, so lookups
// need no locking.
var capabilityRegistry = map[string]Constructor{
	InterfaceAlexa: func() Capability {
		return newInterfaceCapability(InterfaceAlexa)
	},
	InterfacePowerController: func() Capability {
		return newInterfaceCapability(InterfacePowerController, PropPowerState)
	},
	InterfaceBrightnessController: func() Capability {
		return newInterfaceCapability(InterfaceBrightnessController, PropBrightness)
	},
	InterfaceColorController: func() Capability {
		return newInterfaceCapability(InterfaceColorController, PropColor)
	},
	InterfaceColorTemperatureController: func() Capability {
		return newInterfaceCapability(InterfaceColorTemperatureController, PropColorTemperatureInKelvin)
	},
	InterfacePercentageController: func() Capability {
		return newInterfaceCapability(InterfacePercentageController, PropPercentage)
	},
	InterfaceLockController: func() Capability {
		return newInterfaceCapability(InterfaceLockController, PropLockState)
	},
	InterfaceSceneController: func() Capability {
		return &SceneCapability{interfaceCapability: *newInterfaceCapability(InterfaceSceneController)}
	},
	InterfaceSpeaker: func() Capability {
		return newInterfaceCapability(InterfaceSpeaker)
	},
	InterfaceStepSpeaker: func() Capability {
		return newInterfaceCapability(InterfaceStepSpeaker)
	},
	InterfacePlaybackController: func() Capability {
		return newInterfaceCapability(InterfacePlaybackController)
	},
	InterfaceInputController: func() Capability {
		return newInterfaceCapability(InterfaceInputController)
	},
	InterfaceTemperatureSensor: func() Capability {
		return newInterfaceCapability(InterfaceTemperatureSensor, PropTemperature)
	},
	InterfaceThermostatController: func() Capability {
		return &ThermostatCapability{
			interfaceCapability: *newInterfaceCapability(InterfaceThermostatController, PropTargetSetpoint, PropThermostatMode),
		}
	},
	InterfaceContactSensor: func() Capability {
		return newInterfaceCapability(InterfaceContactSensor, PropDetectionState)
	},
}

// NewCapability builds a capability by its protocol interface name.
// Returns ErrUnknownCapability for names outside the registered set.
func NewCapability(name string) (Capability, error) {
	ctor, ok := capabilityRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	return ctor(), nil
}

// MustCapability is NewCapability for names known valid at compile time.
// Panics on an unregistered name.
func MustCapability(name string) Capability {
	c, err := NewCapability(name)
	if err != nil {
		panic(err)
	}
	return c
}
