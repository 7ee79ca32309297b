// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.
//
// tmp006 provides a driver for the Texas Instruments TMP006 non-contact
// infrared thermopile temperature sensor over I²C.
//
// The sensor measures the thermal radiation emitted by an object in its
// field of view and reports the inferred object temperature along with the
// temperature of its own die. The object temperature is computed on the
// host from the raw thermopile voltage and die temperature using the model
// published by TI.
//
// Range (object): -40°C - 125°C
//
// Die temperature resolution: 0.03125°C
//
// The tmp006.Dev type implements the physic.SenseEnv interface. Sense
// returns the object temperature; the pressure and humidity fields of
// physic.Env are not set.
//
// For detailed information, refer to the [datasheet]. The object
// temperature model is documented in TI application note [SBOU107].
//
// [datasheet]: https://www.ti.com/lit/ds/symlink/tmp006.pdf
// [SBOU107]: https://www.ti.com/lit/ug/sbou107/sbou107.pdf
package tmp006
