package database

const schema = `
create table if not exists users (
	id text primary key,
	email text not null unique,
	password_hash bytea not null,
	first_name text not null default '',
	last_name text not null default '',
	role_id int not null default 4,
	panel_permission boolean not null default false,
	can_create_users boolean not null default false,
	account_expires_at timestamptz,
	allowed_ips text,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);

create table if not exists user_sessions (
	id text primary key,
	user_id text not null references users(id) on delete cascade,
	device_id text not null,
	refresh_token_hash bytea not null,
	ip_address text not null default '',
	user_agent text not null default '',
	created_at timestamptz not null default now(),
	last_seen_at timestamptz not null default now(),
	expires_at timestamptz not null,
	unique (user_id, device_id)
);

create table if not exists password_resets (
	email text primary key,
	token_hash bytea not null,
	expires_at timestamptz not null,
	created_at timestamptz not null default now()
);

create table if not exists cities (
	id text primary key,
	name text not null unique,
	created_at timestamptz not null default now()
);

create table if not exists boards (
	id text primary key,
	name text not null,
	city_id text references cities(id) on delete set null,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);

create table if not exists board_lists (
	id text primary key,
	board_id text not null references boards(id) on delete cascade,
	title text not null,
	category int not null default 0,
	position bigint not null default 0,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);

create table if not exists board_cards (
	id text primary key,
	board_list_id text not null references board_lists(id) on delete cascade,
	invoice text not null,
	first_name text not null default '',
	last_name text not null default '',
	description text not null default '',
	position bigint not null default 0,
	checked boolean not null default false,
	payment_done boolean not null default false,
	dependant_payment_done boolean not null default false,
	is_archived boolean not null default false,
	due_date timestamptz,
	country_label_id text,
	intake_label_id text,
	service_area_id text,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);
create index if not exists idx_board_cards_list on board_cards(board_list_id, position);

create table if not exists activities (
	id text primary key,
	user_id text not null,
	user_name text not null,
	card_id text,
	list_id text,
	action text not null,
	details text not null default '',
	attachment_name text,
	attachment_key text,
	created_at timestamptz not null default now()
);
create index if not exists idx_activities_card on activities(card_id, created_at);

create table if not exists country_labels (
	id text primary key,
	name text not null unique,
	created_at timestamptz not null default now()
);

create table if not exists intake_labels (
	id text primary key,
	name text not null unique,
	created_at timestamptz not null default now()
);

create table if not exists service_areas (
	id text primary key,
	name text not null unique,
	created_at timestamptz not null default now()
);

create table if not exists system_settings (
	key text primary key,
	value jsonb not null,
	updated_at timestamptz not null default now()
);

create table if not exists invoice_sequences (
	year smallint primary key,
	last_value int not null default 0
);

create table if not exists city_users (
	city_id text not null references cities(id) on delete cascade,
	user_id text not null references users(id) on delete cascade,
	primary key (city_id, user_id)
);

create table if not exists board_users (
	board_id text not null references boards(id) on delete cascade,
	user_id text not null references users(id) on delete cascade,
	primary key (board_id, user_id)
);

create table if not exists board_list_users (
	board_list_id text not null references board_lists(id) on delete cascade,
	user_id text not null references users(id) on delete cascade,
	primary key (board_list_id, user_id)
);

create table if not exists board_card_members (
	board_card_id text not null references board_cards(id) on delete cascade,
	user_id text not null references users(id) on delete cascade,
	primary key (board_card_id, user_id)
);
`
