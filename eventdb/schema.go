// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for staking events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key,
	id blob(32) not null,
	kind text not null,
	round integer not null,
	block integer not null,
	creator blob(20),
	staker blob(20),
	amount text
);

CREATE INDEX if not exists kindIndex on event(kind);
CREATE INDEX if not exists roundIndex on event(round);
CREATE INDEX if not exists creatorIndex on event(creator);
CREATE INDEX if not exists stakerIndex on event(staker);
`
