/*
 * xyz.go, part of goqsar.
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

package qsar

import (
	"fmt"
	"io"
	"os"
)

//WriteXYZ writes the atoms of the object in XYZ format to out.
func WriteXYZ(out io.Writer, obj *Object) error {
	if _, err := fmt.Fprintf(out, "%-4d\n%s\n", len(obj.Atoms), obj.Name); err != nil {
		return err
	}
	for _, at := range obj.Atoms {
		c := at.Coords
		if _, err := fmt.Fprintf(out, "%-2s  %12.6f%12.6f%12.6f\n", at.Symbol, c[0], c[1], c[2]); err != nil {
			return err
		}
	}
	return nil
}

//XYZFileWrite writes the object in an XYZ file with name xyzname which will
//be created for that. If the file exist it will be overwriten.
func XYZFileWrite(xyzname string, obj *Object) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	if err := WriteXYZ(out, obj); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
