package server

import (
	"github.com/shrek82/stationd/executor"
)

// StationQueries returns the predefined Beidou satellite status queries
// for the monitoring dashboard. Read-only by construction; the SQL never
// leaves the backend and accepts no external input.
func StationQueries() []executor.Statement {
	return []executor.Statement{
		{
			Name:         "堡垒雨量站北斗卫星状态",
			FetchResults: true,
			SQL: `select ssb.stcd 测站编码, stnm 测站名称, case when datatype2='245' then '堡垒雨量站' else '加密雨量站' end 站点类型, getCodeName('AD',ADDVCD) 区县,
				case when tm is null then '无数据'
					when (sysdate - tm > 1) then '离线'||round(sysdate - tm,1)||'天'
					else '正常' end 北斗卫星状态,
				tm 最后数据时间, case when c is null then 0 else c end 报文数量
				from ST_STBPRP_B ssb
				left join (select max(tm) tm, stcd from ST_RAIN_RE_BD group by stcd) t1 on t1.stcd = ssb.stcd
				left join (select stcd, count(1) c from ST_RAIN_RE_BD where tm > sysdate - 1 group by stcd) t2 on t2.stcd = ssb.stcd
				where BD='01' and DATATYPE2 in ('245','JM') order by DATATYPE2`,
		},
		{
			Name:         "水文站北斗卫星状态",
			FetchResults: true,
			SQL: `select ssb.stcd 测站编码, stnm 测站名称,
				case when datatype = 'NEW' then '补短板' when datatype = '地埋式水位计' then '地埋式水位计' else '水文站' end 站点类型, getCodeName('AD',ADDVCD) 区县,
				case when tm is null then '无数据'
					when (sysdate - tm > 1) then '离线'||to_char(round((sysdate - tm),1))||'天'
					else '正常' end 北斗卫星状态,
				tm 最后数据时间, case when c is null then 0 else c end 报文数量, DATATYPE
				from ST_STBPRP_B ssb
				left join (select max(tm) tm, stcd from st_river_r_bd group by stcd) t1 on t1.stcd = ssb.stcd
				left join (select stcd, count(1) c from st_river_r_bd where tm > sysdate - 1 group by stcd) t2 on t2.stcd = ssb.stcd
				where BD='01' and sttp in ('ZZ','ZQ') order by 站点类型`,
		},
		{
			Name:         "墒情站北斗卫星状态",
			FetchResults: true,
			SQL: `select ssb.stcd 测站编码, stnm 测站名称, '墒情站' 站点类型, getCodeName('AD',ADDVCD) 区县,
				case when tm is null then '无数据'
					when (sysdate - tm > 1) then '离线'||to_char(round((sysdate - tm),1))||'天'
					else '正常' end 北斗卫星状态,
				tm 最后数据时间, case when c is null then 0 else c end 报文数量
				from ST_SQ_B ssb
				left join (select max(tm) tm, stcd from ST_MOISTURE_R_BD group by stcd) t1 on t1.stcd = ssb.stcd
				left join (select stcd, count(1) c from ST_MOISTURE_R_BD where tm > sysdate - 1 group by stcd) t2 on t2.stcd = ssb.stcd
				where BD='01' order by 站点类型`,
		},
	}
}
