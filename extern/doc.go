/*
 * doc.go, part of goqsar.
 *
 * Copyright 2024 The goqsar Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package extern contains what goqsar needs from the programs that compute molecular
interaction fields: the Engine contract, a generic driver for command-line programs
(Program), a retry wrapper for the one known flaky failure (Retry), and an in-process
force-field probe (Probe) that computes steric and electrostatic fields without any
external program.

Engines are called synchronously, once per molecule, from the workers of a pool.
An engine must only write inside the directory it is given for the molecule.
*/
package extern
