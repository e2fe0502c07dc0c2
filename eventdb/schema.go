// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for farm notifications
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	poolID INTEGER NOT NULL,
	user BLOB(20) NOT NULL,
	token TEXT NOT NULL,
	amount BLOB(32),
	PRIMARY KEY (blockNumber, eventIndex)
);

CREATE INDEX IF NOT EXISTS eventPoolIndex ON event(poolID);
CREATE INDEX IF NOT EXISTS eventUserIndex ON event(user);
CREATE INDEX IF NOT EXISTS eventNameIndex ON event(name);
`

// create a table for token transfers
const transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	blockNumber INTEGER NOT NULL,
	transferIndex INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	token TEXT NOT NULL,
	amount BLOB(32),
	memo TEXT NOT NULL,
	PRIMARY KEY (blockNumber, transferIndex)
);

CREATE INDEX IF NOT EXISTS transferTxIndex ON transfer(txID);
CREATE INDEX IF NOT EXISTS transferSenderIndex ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferRecipientIndex ON transfer(recipient);
`
