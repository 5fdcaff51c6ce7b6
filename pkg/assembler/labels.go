// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"github.com/golang/glog"
)

// ResolveLabels rewrites every identifier naming a marker into an Address
// token holding the marker's offset. When a label is declared twice the first
// declaration wins.
func ResolveLabels(tokens []Token, markers []Marker) {
	for _, marker := range markers {
		count := 0

		for i := range tokens {
			if tokens[i].Kind != TOKEN_IDENT || tokens[i].Text != marker.Name {
				continue
			}

			tokens[i].Kind = TOKEN_ADDRESS
			tokens[i].Value = marker.Offset
			count++
		}

		glog.V(2).Infof(
			"labels: :%s @ %d, %d references", marker.Name, marker.Offset, count,
		)
	}
}
