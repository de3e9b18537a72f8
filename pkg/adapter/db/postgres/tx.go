// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

// Tx is an ongoing transaction which is created by Conn.Tx method.
// It must not be used concurrently, nor after its handler returns.
// PostgreSQL runs it in the READ COMMITTED isolation level, so the
// repositories which need to serialize writers lock the rows
// explicitly (SELECT ... FOR UPDATE) or rely on unique keys.
type Tx struct {
	session
}

func (tx *Tx) IsTx() {
}
